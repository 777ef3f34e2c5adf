package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

// RecipientRepository resolves recipient references against the academy's
// player, coach and admin tables.
type RecipientRepository interface {
	Exists(ctx context.Context, recipient domain.RecipientRef) (bool, error)
	Email(ctx context.Context, recipient domain.RecipientRef) (string, error)
}

type recipientRepository struct {
	db *sqlx.DB
}

func NewRecipientRepository(db *sqlx.DB) RecipientRepository {
	return &recipientRepository{db: db}
}

func tableFor(t domain.RecipientType) (string, error) {
	switch t {
	case domain.RecipientPlayer:
		return "players", nil
	case domain.RecipientCoach:
		return "coaches", nil
	case domain.RecipientAdmin:
		return "admins", nil
	}
	return "", fmt.Errorf("unknown recipient type %q: %w", t, domain.ErrValidation)
}

func (r *recipientRepository) Exists(ctx context.Context, recipient domain.RecipientRef) (bool, error) {
	table, err := tableFor(recipient.Type)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	err = r.db.GetContext(ctx, &exists, query, recipient.ID)
	return exists, err
}

func (r *recipientRepository) Email(ctx context.Context, recipient domain.RecipientRef) (string, error) {
	table, err := tableFor(recipient.Type)
	if err != nil {
		return "", err
	}

	var email string
	query := fmt.Sprintf(`SELECT email FROM %s WHERE id = $1`, table)
	err = r.db.GetContext(ctx, &email, query, recipient.ID)
	return email, err
}
