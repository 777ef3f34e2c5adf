package delivery

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

func testNotification(title string) *domain.Notification {
	return &domain.Notification{
		ID:            uuid.New(),
		RecipientType: domain.RecipientPlayer,
		RecipientID:   uuid.New(),
		Type:          domain.NotifSystem,
		Title:         title,
		Message:       "m",
		Priority:      domain.PriorityNormal,
		Status:        domain.StatusPending,
	}
}

func TestMemoryChannel_PublishOrdering(t *testing.T) {
	ch := NewMemoryChannel()

	var mu sync.Mutex
	var got []string
	unsubscribe, err := ch.Subscribe("player:p1", func(n *domain.Notification) {
		mu.Lock()
		got = append(got, n.Title)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribe()

	want := []string{"first", "second", "third", "fourth"}
	for _, title := range want {
		ch.Publish(context.Background(), "player:p1", testNotification(title))
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestMemoryChannel_IndependentSubscriptions(t *testing.T) {
	ch := NewMemoryChannel()

	var a, b atomic.Int32
	unsubA, err := ch.Subscribe("coach:c1", func(*domain.Notification) { a.Add(1) })
	require.NoError(t, err)
	unsubB, err := ch.Subscribe("coach:c1", func(*domain.Notification) { b.Add(1) })
	require.NoError(t, err)

	ch.Publish(context.Background(), "coach:c1", testNotification("x"))
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())

	// Dropping one tab leaves the other receiving.
	unsubA()
	ch.Publish(context.Background(), "coach:c1", testNotification("y"))
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(2), b.Load())

	unsubB()
}

func TestMemoryChannel_KeyIsolation(t *testing.T) {
	ch := NewMemoryChannel()

	var called atomic.Int32
	unsubscribe, err := ch.Subscribe("player:p1", func(*domain.Notification) { called.Add(1) })
	require.NoError(t, err)
	defer unsubscribe()

	ch.Publish(context.Background(), "player:p2", testNotification("other"))
	assert.Equal(t, int32(0), called.Load())
}

func TestMemoryChannel_NoDeliveryAfterUnsubscribe(t *testing.T) {
	ch := NewMemoryChannel()

	var count atomic.Int32
	unsubscribe, err := ch.Subscribe("player:p1", func(*domain.Notification) { count.Add(1) })
	require.NoError(t, err)

	ch.Publish(context.Background(), "player:p1", testNotification("before"))
	unsubscribe()
	seen := count.Load()

	ch.Publish(context.Background(), "player:p1", testNotification("after"))
	assert.Equal(t, seen, count.Load())
}

// Hammers publish from one goroutine while unsubscribing from another: once
// unsubscribe returns, the handler must never run again.
func TestMemoryChannel_UnsubscribeDuringPublish(t *testing.T) {
	for i := 0; i < 50; i++ {
		ch := NewMemoryChannel()

		var closed atomic.Bool
		unsubscribe, err := ch.Subscribe("player:p1", func(*domain.Notification) {
			if closed.Load() {
				t.Error("handler invoked after unsubscribe returned")
			}
		})
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)
			n := testNotification("race")
			for j := 0; j < 100; j++ {
				ch.Publish(context.Background(), "player:p1", n)
			}
		}()

		time.Sleep(time.Microsecond * time.Duration(i))
		unsubscribe()
		closed.Store(true)
		<-done
	}
}

func TestMemoryChannel_ActiveSubscriptions(t *testing.T) {
	ch := NewMemoryChannel()
	assert.Equal(t, 0, ch.ActiveSubscriptions())
	assert.Equal(t, ModeMemory, ch.Mode())

	unsubA, err := ch.Subscribe("player:p1", func(*domain.Notification) {})
	require.NoError(t, err)
	unsubB, err := ch.Subscribe("coach:c1", func(*domain.Notification) {})
	require.NoError(t, err)
	assert.Equal(t, 2, ch.ActiveSubscriptions())

	unsubA()
	assert.Equal(t, 1, ch.ActiveSubscriptions())

	// Unsubscribe is idempotent.
	unsubA()
	assert.Equal(t, 1, ch.ActiveSubscriptions())

	unsubB()
	assert.Equal(t, 0, ch.ActiveSubscriptions())
}

func TestMemoryChannel_PublishWithoutSubscribers(t *testing.T) {
	ch := NewMemoryChannel()
	// Must be a no-op, not a panic.
	ch.Publish(context.Background(), "player:nobody", testNotification("void"))
}
