package domain

import "github.com/google/uuid"

// RecipientType identifies which entity class owns a notification.
type RecipientType string

const (
	RecipientPlayer RecipientType = "player"
	RecipientCoach  RecipientType = "coach"
	RecipientAdmin  RecipientType = "admin"
)

func (t RecipientType) Valid() bool {
	switch t {
	case RecipientPlayer, RecipientCoach, RecipientAdmin:
		return true
	}
	return false
}

// RecipientRef is the composite identity used to scope pub/sub channels and
// subscriber registries.
type RecipientRef struct {
	Type RecipientType `json:"recipient_type"`
	ID   uuid.UUID     `json:"recipient_id"`
}

// Key returns the recipient key ("type:id") used as the pub/sub channel name.
func (r RecipientRef) Key() string {
	return string(r.Type) + ":" + r.ID.String()
}
