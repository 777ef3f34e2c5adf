package push

import (
	"context"
	"log"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

// mobileSender covers the push channel tag. No mobile push provider is wired
// in this deployment; deliveries are logged so the handoff path stays
// exercised end to end.
type mobileSender struct{}

func NewMobileSender() Sender {
	return &mobileSender{}
}

func (s *mobileSender) Send(_ context.Context, notif *domain.Notification) error {
	log.Printf("push: mobile delivery for notification %s to %s (%s)", notif.ID, notif.Recipient().Key(), notif.Title)
	return nil
}
