package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/middleware"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/notification"
)

// streamBuffer bounds the per-connection event queue; a client that cannot
// keep up loses live events and catches up via the list query.
const streamBuffer = 16

type StreamHandler struct {
	notifService notification.Service
	keepalive    time.Duration
}

func NewStreamHandler(notifService notification.Service, keepalive time.Duration) *StreamHandler {
	return &StreamHandler{notifService: notifService, keepalive: keepalive}
}

// Stream opens a Server-Sent Events connection and forwards bus events for
// the authenticated recipient until the client disconnects. Closing the
// connection unsubscribes the handler.
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	recipient, err := middleware.GetRecipient(c)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events := make(chan *domain.Notification, streamBuffer)
		unsubscribe, err := h.notifService.Subscribe(recipient, func(n *domain.Notification) {
			select {
			case events <- n:
			default:
				log.Printf("stream %s: buffer full, dropping event %s", recipient.Key(), n.ID)
			}
		})
		if err != nil {
			log.Printf("stream %s: subscribe failed: %v", recipient.Key(), err)
			return
		}
		defer unsubscribe()

		keepalive := time.NewTicker(h.keepalive)
		defer keepalive.Stop()

		for {
			select {
			case n := <-events:
				payload, err := json.Marshal(n)
				if err != nil {
					log.Printf("stream %s: marshal failed for %s: %v", recipient.Key(), n.ID, err)
					continue
				}
				if err := writeEvent(w, "notification", payload); err != nil {
					return
				}
			case <-keepalive.C:
				// Comment line keeps proxies from idling out the connection
				// and surfaces a dead client as a write error.
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, event string, payload []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

// Status reports the active delivery mode and live subscription count. A
// client seeing memory mode behind multiple instances knows cross-instance
// delivery is degraded.
func (h *StreamHandler) Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.notifService.Status())
}
