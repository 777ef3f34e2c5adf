package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

type RecipientRepository struct {
	mock.Mock
}

func (m *RecipientRepository) Exists(ctx context.Context, recipient domain.RecipientRef) (bool, error) {
	args := m.Called(ctx, recipient)
	return args.Bool(0), args.Error(1)
}

func (m *RecipientRepository) Email(ctx context.Context, recipient domain.RecipientRef) (string, error) {
	args := m.Called(ctx, recipient)
	return args.String(0), args.Error(1)
}
