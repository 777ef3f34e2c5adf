package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akgolfgroup-netizen/player-development-api/internal/delivery"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

type DeliveryChannel struct {
	mock.Mock
}

func (m *DeliveryChannel) Publish(ctx context.Context, key string, n *domain.Notification) {
	m.Called(ctx, key, n)
}

func (m *DeliveryChannel) Subscribe(key string, h delivery.Handler) (func(), error) {
	args := m.Called(key, h)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

func (m *DeliveryChannel) Mode() string {
	args := m.Called()
	return args.String(0)
}

func (m *DeliveryChannel) ActiveSubscriptions() int {
	args := m.Called()
	return args.Int(0)
}
