package service

import (
	"github.com/akgolfgroup-netizen/player-development-api/internal/config"
	"github.com/akgolfgroup-netizen/player-development-api/internal/delivery"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/repository"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/notification"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/push"
)

type Services struct {
	Notification notification.Service
	Push         push.Service
}

// NewServices wires the notification bus to the delivery channel chosen at
// startup. The push service covers the push and email channel tags; the app
// channel is the delivery channel itself.
func NewServices(repos *repository.Repositories, channel delivery.Channel, cfg *config.Config) *Services {
	senders := map[string]push.Sender{
		domain.ChannelEmail: push.NewEmailSender(cfg, repos.Recipient),
		domain.ChannelPush:  push.NewMobileSender(),
	}
	pushService := push.NewService(senders, cfg.PushQueueSize)

	notificationService := notification.NewService(repos.Notification, repos.Recipient, channel, pushService)

	return &Services{
		Notification: notificationService,
		Push:         pushService,
	}
}
