package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

type PushService struct {
	mock.Mock
}

func (m *PushService) Enqueue(notif *domain.Notification) {
	m.Called(notif)
}

func (m *PushService) Close() {
	m.Called()
}
