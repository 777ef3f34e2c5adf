package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/middleware"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

// Create stores a notification and publishes it to any live subscribers of
// the recipient. A delivery failure never fails this request; the stored
// record is the durability guarantee.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	notif, err := h.notifService.Create(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(notif)
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	recipient, err := middleware.GetRecipient(c)
	if err != nil {
		return err
	}

	unreadOnly := c.Query("unread_only") == "true"
	params := getPaginationParams(c)

	result, err := h.notifService.List(c.Context(), recipient, unreadOnly, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	recipient, err := middleware.GetRecipient(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.UnreadCount(c.Context(), recipient)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	recipient, err := middleware.GetRecipient(c)
	if err != nil {
		return err
	}

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	notif, err := h.notifService.MarkAsRead(c.Context(), notifID, recipient)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":      notif.ID,
		"read_at": notif.ReadAt,
	})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	recipient, err := middleware.GetRecipient(c)
	if err != nil {
		return err
	}

	updated, err := h.notifService.MarkAllAsRead(c.Context(), recipient)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"updated": updated,
	})
}
