// Package push hands notifications off to external senders (email via
// Resend, mobile push) on a background queue, so sender failures and latency
// never touch the create-and-publish path.
package push

import (
	"context"
	"log"
	"sync"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

// Sender delivers one notification over one external channel.
type Sender interface {
	Send(ctx context.Context, notif *domain.Notification) error
}

type Service interface {
	// Enqueue schedules external delivery for every push-capable channel
	// tag on the notification. Never blocks: if the queue is full the
	// notification is dropped with a log line (the store remains the source
	// of truth).
	Enqueue(notif *domain.Notification)

	// Close drains the queue and stops the worker.
	Close()
}

type service struct {
	senders map[string]Sender
	queue   chan *domain.Notification
	wg      sync.WaitGroup
}

// NewService starts a single worker draining the queue. senders is keyed by
// channel tag (domain.ChannelPush, domain.ChannelEmail).
func NewService(senders map[string]Sender, queueSize int) Service {
	s := &service{
		senders: senders,
		queue:   make(chan *domain.Notification, queueSize),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *service) run() {
	defer s.wg.Done()

	for notif := range s.queue {
		for tag, sender := range s.senders {
			if !notif.HasChannel(tag) {
				continue
			}
			if err := sender.Send(context.Background(), notif); err != nil {
				log.Printf("push: %s delivery for notification %s failed: %v", tag, notif.ID, err)
			}
		}
	}
}

func (s *service) Enqueue(notif *domain.Notification) {
	select {
	case s.queue <- notif:
	default:
		log.Printf("push: queue full, dropping notification %s", notif.ID)
	}
}

func (s *service) Close() {
	close(s.queue)
	s.wg.Wait()
}
