// Package delivery provides the pub/sub fan-out used to push notifications
// to live connections. Two backends implement the same contract: Redis
// pub/sub (cross-instance) and an in-process registry (single instance).
// The backend is chosen once at startup and injected into the notification
// service; delivery is best-effort, the notification store is the source of
// truth for catch-up.
package delivery

import (
	"context"
	"sync"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

// Handler receives notifications published for a recipient key. Handlers
// must not block for long; slow consumers should buffer internally.
type Handler func(n *domain.Notification)

type Channel interface {
	// Publish fans out n to all current subscribers for the recipient key.
	// Best-effort: backend failures are logged, never returned.
	Publish(ctx context.Context, key string, n *domain.Notification)

	// Subscribe registers h for the recipient key and returns an
	// unsubscribe function. Subscriptions for the same key are independent.
	// After the unsubscribe function returns, h is never invoked again,
	// even if a publish was in flight.
	Subscribe(key string, h Handler) (func(), error)

	// Mode reports which backend is active.
	Mode() string

	// ActiveSubscriptions reports the number of registered handlers in this
	// process.
	ActiveSubscriptions() int
}

const (
	ModeRedis  = "redis"
	ModeMemory = "memory"
)

// subscription pairs a handler with the lock that makes unsubscribe safe
// against an in-flight publish: deliver holds mu across the handler call,
// and close takes mu before marking the subscription dead, so once close
// returns no delivery can still be running or start.
type subscription struct {
	mu     sync.Mutex
	h      Handler
	closed bool
}

func (s *subscription) deliver(n *domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.h(n)
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
