package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/akgolfgroup-netizen/player-development-api/internal/config"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service"
)

type Handlers struct {
	Notification *NotificationHandler
	Stream       *StreamHandler
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Stream:       NewStreamHandler(services.Notification, cfg.StreamKeepalive),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
