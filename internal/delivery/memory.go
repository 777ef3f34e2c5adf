package delivery

import (
	"context"
	"sync"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

// memoryChannel is the degraded-mode backend: fan-out is limited to the
// current process, so cross-instance delivery silently does not happen.
type memoryChannel struct {
	mu   sync.RWMutex
	subs map[string][]*subscription
}

func NewMemoryChannel() Channel {
	return &memoryChannel{subs: make(map[string][]*subscription)}
}

func (c *memoryChannel) Publish(_ context.Context, key string, n *domain.Notification) {
	c.mu.RLock()
	snapshot := make([]*subscription, len(c.subs[key]))
	copy(snapshot, c.subs[key])
	c.mu.RUnlock()

	// Iterate the snapshot so an unsubscribe during fan-out cannot mutate
	// the slice under us; deliver itself skips closed subscriptions.
	for _, sub := range snapshot {
		sub.deliver(n)
	}
}

func (c *memoryChannel) Subscribe(key string, h Handler) (func(), error) {
	sub := &subscription{h: h}

	c.mu.Lock()
	c.subs[key] = append(c.subs[key], sub)
	c.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.close()
			c.remove(key, sub)
		})
	}
	return unsubscribe, nil
}

func (c *memoryChannel) remove(key string, sub *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs := c.subs[key]
	for i, s := range subs {
		if s == sub {
			c.subs[key] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(c.subs[key]) == 0 {
		delete(c.subs, key)
	}
}

func (c *memoryChannel) Mode() string {
	return ModeMemory
}

func (c *memoryChannel) ActiveSubscriptions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, subs := range c.subs {
		count += len(subs)
	}
	return count
}
