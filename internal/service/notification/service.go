// Package notification is the bus that orchestrates notification creation,
// fan-out to live connections, and read-state tracking. The durable store
// write always precedes publish; delivery itself is best-effort.
package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akgolfgroup-netizen/player-development-api/internal/delivery"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/repository"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/push"
)

type Service interface {
	Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, recipient domain.RecipientRef, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, recipient domain.RecipientRef) (int64, error)

	MarkAsRead(ctx context.Context, id uuid.UUID, recipient domain.RecipientRef) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, recipient domain.RecipientRef) (int64, error)

	Subscribe(recipient domain.RecipientRef, h delivery.Handler) (func(), error)
	Status() domain.StreamStatus
}

type service struct {
	notifRepo     repository.NotificationRepository
	recipientRepo repository.RecipientRepository
	channel       delivery.Channel
	pushSvc       push.Service
}

// NewService wires the bus to its store, the recipient existence check, the
// delivery channel selected at startup, and the optional push service.
func NewService(
	notifRepo repository.NotificationRepository,
	recipientRepo repository.RecipientRepository,
	channel delivery.Channel,
	pushSvc push.Service,
) Service {
	return &service{
		notifRepo:     notifRepo,
		recipientRepo: recipientRepo,
		channel:       channel,
		pushSvc:       pushSvc,
	}
}

// Create validates the input, durably stores the notification as pending,
// then publishes it on the delivery channel. Store failures are hard
// failures; publish failures are swallowed by the channel (the store write
// is the durability guarantee). Per-recipient publish order matches creation
// order because the store write completes before publish and the call is
// awaited.
func (s *service) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	recipient := domain.RecipientRef{Type: input.RecipientType, ID: input.RecipientID}
	exists, err := s.recipientRepo.Exists(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%s %s: %w", recipient.Type, recipient.ID, domain.ErrNotFound)
	}

	notif := &domain.Notification{
		ID:            uuid.New(),
		RecipientType: input.RecipientType,
		RecipientID:   input.RecipientID,
		Type:          input.Type,
		Title:         input.Title,
		Message:       input.Message,
		Priority:      input.Priority,
		Status:        domain.StatusPending,
		Channels:      input.Channels,
		Data:          input.Data,
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to store notification: %w", err)
	}

	s.channel.Publish(ctx, recipient.Key(), notif)

	if s.pushSvc != nil && (notif.HasChannel(domain.ChannelPush) || notif.HasChannel(domain.ChannelEmail)) {
		s.pushSvc.Enqueue(notif)
	}

	return notif, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return notif, nil
}

func (s *service) List(ctx context.Context, recipient domain.RecipientRef, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByRecipient(ctx, recipient, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) UnreadCount(ctx context.Context, recipient domain.RecipientRef) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipient)
}

// MarkAsRead sets read_at on first call and is a no-op success on repeats
// (first-write-wins, read_at never changes once set). A notification owned
// by a different recipient is reported as not found, not forbidden.
func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID, recipient domain.RecipientRef) (*domain.Notification, error) {
	notif, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notif.RecipientType != recipient.Type || notif.RecipientID != recipient.ID {
		return nil, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}

	if notif.ReadAt != nil {
		return notif, nil
	}

	// Conditional at the storage layer: a concurrent call racing us simply
	// loses the write and both succeed.
	if _, err := s.notifRepo.MarkAsRead(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return s.GetByID(ctx, id)
}

// MarkAllAsRead is one atomic conditional update; the returned count is
// exactly the number of previously-unread notifications it transitioned.
func (s *service) MarkAllAsRead(ctx context.Context, recipient domain.RecipientRef) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, recipient)
}

func (s *service) Subscribe(recipient domain.RecipientRef, h delivery.Handler) (func(), error) {
	unsubscribe, err := s.channel.Subscribe(recipient.Key(), h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return unsubscribe, nil
}

func (s *service) Status() domain.StreamStatus {
	return domain.StreamStatus{
		Mode:                s.channel.Mode(),
		ActiveSubscriptions: s.channel.ActiveSubscriptions(),
	}
}
