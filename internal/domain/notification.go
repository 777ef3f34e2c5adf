package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Notification struct {
	ID            uuid.UUID            `json:"id" db:"id"`
	RecipientType RecipientType        `json:"recipient_type" db:"recipient_type"`
	RecipientID   uuid.UUID            `json:"recipient_id" db:"recipient_id"`
	Type          NotificationType     `json:"type" db:"type"`
	Title         string               `json:"title" db:"title"`
	Message       string               `json:"message" db:"message"`
	Priority      NotificationPriority `json:"priority" db:"priority"`
	Status        NotificationStatus   `json:"status" db:"status"`
	Channels      pq.StringArray       `json:"channels" db:"channels"`
	Data          json.RawMessage      `json:"data,omitempty" db:"data"`
	ReadAt        *time.Time           `json:"read_at,omitempty" db:"read_at"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
}

func (n *Notification) Recipient() RecipientRef {
	return RecipientRef{Type: n.RecipientType, ID: n.RecipientID}
}

// HasChannel reports whether the notification requested the given delivery
// channel tag.
func (n *Notification) HasChannel(tag string) bool {
	for _, c := range n.Channels {
		if c == tag {
			return true
		}
	}
	return false
}

type NotificationType string

const (
	NotifSystem           NotificationType = "SYSTEM"
	NotifVideoShared      NotificationType = "VIDEO_SHARED"
	NotifSessionScheduled NotificationType = "SESSION_SCHEDULED"
	NotifTournamentEntry  NotificationType = "TOURNAMENT_ENTRY"
	NotifBadgeAwarded     NotificationType = "BADGE_AWARDED"
	NotifCoachNote        NotificationType = "COACH_NOTE"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifSystem, NotifVideoShared, NotifSessionScheduled,
		NotifTournamentEntry, NotifBadgeAwarded, NotifCoachNote:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// NotificationStatus moves forward only: pending -> delivered -> read.
type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusDelivered NotificationStatus = "delivered"
	StatusRead      NotificationStatus = "read"
)

// Delivery channel tags a notification may request. The app channel is the
// in-app live stream; push and email are handed off to the push service.
const (
	ChannelApp   = "app"
	ChannelPush  = "push"
	ChannelEmail = "email"
)

func validChannel(tag string) bool {
	return tag == ChannelApp || tag == ChannelPush || tag == ChannelEmail
}

type CreateNotificationInput struct {
	RecipientType RecipientType        `json:"recipient_type"`
	RecipientID   uuid.UUID            `json:"recipient_id"`
	Type          NotificationType     `json:"type"`
	Title         string               `json:"title"`
	Message       string               `json:"message"`
	Priority      NotificationPriority `json:"priority"`
	Channels      []string             `json:"channels"`
	Data          json.RawMessage      `json:"data,omitempty"`
}

// Validate checks required fields and enum values, filling in defaults
// (normal priority, app channel) where the input left them empty.
func (in *CreateNotificationInput) Validate() error {
	if !in.RecipientType.Valid() {
		return fmt.Errorf("invalid recipient_type %q: %w", in.RecipientType, ErrValidation)
	}
	if in.RecipientID == uuid.Nil {
		return fmt.Errorf("recipient_id is required: %w", ErrValidation)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("invalid type %q: %w", in.Type, ErrValidation)
	}
	if in.Title == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Message == "" {
		return fmt.Errorf("message is required: %w", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("invalid priority %q: %w", in.Priority, ErrValidation)
	}
	if len(in.Channels) == 0 {
		in.Channels = []string{ChannelApp}
	}
	for _, tag := range in.Channels {
		if !validChannel(tag) {
			return fmt.Errorf("invalid channel %q: %w", tag, ErrValidation)
		}
	}
	return nil
}

// StreamStatus reports which delivery backend is active and how many live
// subscriptions the process is serving.
type StreamStatus struct {
	Mode                string `json:"mode"`
	ActiveSubscriptions int    `json:"active_subscriptions"`
}
