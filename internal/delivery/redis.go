package delivery

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

const channelPrefix = "notifications:"

// redisChannel fans out over Redis pub/sub so delivery reaches subscribers
// on every server instance.
type redisChannel struct {
	client *redis.Client

	mu    sync.Mutex
	count int
}

func NewRedisChannel(client *redis.Client) Channel {
	return &redisChannel{client: client}
}

func (c *redisChannel) Publish(ctx context.Context, key string, n *domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification %s: marshal for publish failed: %v", n.ID, err)
		return
	}

	if err := c.client.Publish(ctx, channelPrefix+key, payload).Err(); err != nil {
		// Best-effort: the store write already succeeded, producers must
		// not fail because fan-out did.
		log.Printf("notification %s: publish to %s failed: %v", n.ID, key, err)
	}
}

func (c *redisChannel) Subscribe(key string, h Handler) (func(), error) {
	sub := &subscription{h: h}

	pubsub := c.client.Subscribe(context.Background(), channelPrefix+key)

	// Wait for the subscription handshake so events published after
	// Subscribe returns are guaranteed to reach this handler.
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, err
	}

	c.mu.Lock()
	c.count++
	c.mu.Unlock()

	go func() {
		for msg := range pubsub.Channel() {
			var n domain.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Printf("subscription %s: dropping malformed event: %v", key, err)
				continue
			}
			sub.deliver(&n)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.close()
			if err := pubsub.Close(); err != nil {
				log.Printf("subscription %s: close failed: %v", key, err)
			}
			c.mu.Lock()
			c.count--
			c.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

func (c *redisChannel) Mode() string {
	return ModeRedis
}

func (c *redisChannel) ActiveSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
