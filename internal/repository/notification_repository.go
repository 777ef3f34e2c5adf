package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipient domain.RecipientRef, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) (bool, error)
	MarkAllAsRead(ctx context.Context, recipient domain.RecipientRef) (int64, error)
	CountUnread(ctx context.Context, recipient domain.RecipientRef) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_type, recipient_id, type, title, message, priority, status, channels, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.RecipientType, notif.RecipientID, notif.Type,
		notif.Title, notif.Message, notif.Priority, notif.Status,
		notif.Channels, notif.Data,
	).Scan(&notif.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`
	err := r.db.GetContext(ctx, &notif, query, id)
	return &notif, err
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipient domain.RecipientRef, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	var total int64
	var notifications []domain.Notification

	if unreadOnly {
		countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 AND read_at IS NULL`
		if err := r.db.GetContext(ctx, &total, countQuery, recipient.Type, recipient.ID); err != nil {
			return nil, 0, err
		}

		query := `
			SELECT * FROM notifications
			WHERE recipient_type = $1 AND recipient_id = $2 AND read_at IS NULL
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4`
		err := r.db.SelectContext(ctx, &notifications, query, recipient.Type, recipient.ID, params.PageSize, params.Offset())
		return notifications, total, err
	}

	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2`
	if err := r.db.GetContext(ctx, &total, countQuery, recipient.Type, recipient.ID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM notifications
		WHERE recipient_type = $1 AND recipient_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	err := r.db.SelectContext(ctx, &notifications, query, recipient.Type, recipient.ID, params.PageSize, params.Offset())
	return notifications, total, err
}

// MarkAsRead is conditional on read_at being unset so that concurrent calls
// are first-write-wins. Returns whether this call performed the transition.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET status = 'read', read_at = NOW() WHERE id = $1 AND read_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// MarkAllAsRead is a single atomic conditional update; it never reads then
// writes, so it cannot double-count against concurrent MarkAsRead calls.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipient domain.RecipientRef) (int64, error) {
	query := `UPDATE notifications SET status = 'read', read_at = NOW() WHERE recipient_type = $1 AND recipient_id = $2 AND read_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, recipient.Type, recipient.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipient domain.RecipientRef) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_type = $1 AND recipient_id = $2 AND read_at IS NULL`
	err := r.db.GetContext(ctx, &count, query, recipient.Type, recipient.ID)
	return count, err
}
