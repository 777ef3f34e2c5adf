package unit_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/akgolfgroup-netizen/player-development-api/internal/delivery"
	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
	"github.com/akgolfgroup-netizen/player-development-api/internal/service/notification"
	"github.com/akgolfgroup-netizen/player-development-api/tests/mocks"
)

func validInput(recipientID uuid.UUID) domain.CreateNotificationInput {
	return domain.CreateNotificationInput{
		RecipientType: domain.RecipientPlayer,
		RecipientID:   recipientID,
		Type:          domain.NotifVideoShared,
		Title:         "Video delt",
		Message:       "Your coach shared a swing video",
		Channels:      []string{domain.ChannelApp},
	}
}

func TestNotificationService_Create(t *testing.T) {
	ctx := context.Background()
	playerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		channel := delivery.NewMemoryChannel()
		svc := notification.NewService(mockRepo, mockRecipients, channel, nil)

		recipient := domain.RecipientRef{Type: domain.RecipientPlayer, ID: playerID}
		mockRecipients.On("Exists", ctx, recipient).Return(true, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == playerID && n.Status == domain.StatusPending && n.ReadAt == nil
		})).Return(nil).Once()

		notif, err := svc.Create(ctx, validInput(playerID))

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, notif.Status)
		assert.Nil(t, notif.ReadAt)
		assert.Equal(t, domain.PriorityNormal, notif.Priority)
		mockRepo.AssertExpectations(t)
		mockRecipients.AssertExpectations(t)
	})

	t.Run("Publishes To Subscriber", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		channel := delivery.NewMemoryChannel()
		svc := notification.NewService(mockRepo, mockRecipients, channel, nil)

		recipient := domain.RecipientRef{Type: domain.RecipientPlayer, ID: playerID}
		mockRecipients.On("Exists", ctx, recipient).Return(true, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(nil)

		var received []string
		unsubscribe, err := svc.Subscribe(recipient, func(n *domain.Notification) {
			received = append(received, n.Title)
		})
		require.NoError(t, err)
		defer unsubscribe()

		for _, title := range []string{"one", "two", "three"} {
			input := validInput(playerID)
			input.Title = title
			_, err := svc.Create(ctx, input)
			require.NoError(t, err)
		}

		// In-memory delivery is synchronous; creation order is preserved.
		assert.Equal(t, []string{"one", "two", "three"}, received)
	})

	t.Run("Recipient Not Found", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		svc := notification.NewService(mockRepo, mockRecipients, delivery.NewMemoryChannel(), nil)

		mockRecipients.On("Exists", ctx, mock.Anything).Return(false, nil).Once()

		notif, err := svc.Create(ctx, validInput(playerID))

		assert.Nil(t, notif)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		// Nothing may be written when the recipient does not resolve.
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation Errors", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		svc := notification.NewService(mockRepo, mockRecipients, delivery.NewMemoryChannel(), nil)

		cases := []struct {
			name   string
			mutate func(*domain.CreateNotificationInput)
		}{
			{"missing title", func(in *domain.CreateNotificationInput) { in.Title = "" }},
			{"missing message", func(in *domain.CreateNotificationInput) { in.Message = "" }},
			{"bad recipient type", func(in *domain.CreateNotificationInput) { in.RecipientType = "caddy" }},
			{"nil recipient id", func(in *domain.CreateNotificationInput) { in.RecipientID = uuid.Nil }},
			{"bad type", func(in *domain.CreateNotificationInput) { in.Type = "SHOUT" }},
			{"bad priority", func(in *domain.CreateNotificationInput) { in.Priority = "urgent" }},
			{"bad channel", func(in *domain.CreateNotificationInput) { in.Channels = []string{"fax"} }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := validInput(playerID)
				tc.mutate(&input)

				notif, err := svc.Create(ctx, input)

				assert.Nil(t, notif)
				assert.ErrorIs(t, err, domain.ErrValidation)
			})
		}

		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Store Failure Propagates", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		mockChannel := new(mocks.DeliveryChannel)
		svc := notification.NewService(mockRepo, mockRecipients, mockChannel, nil)

		mockRecipients.On("Exists", ctx, mock.Anything).Return(true, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		notif, err := svc.Create(ctx, validInput(playerID))

		assert.Nil(t, notif)
		assert.Error(t, err)
		// Never published without a durable store write first.
		mockChannel.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Push Enqueued For External Channels", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		mockRecipients := new(mocks.RecipientRepository)
		mockPush := new(mocks.PushService)
		svc := notification.NewService(mockRepo, mockRecipients, delivery.NewMemoryChannel(), mockPush)

		mockRecipients.On("Exists", ctx, mock.Anything).Return(true, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(nil)
		mockPush.On("Enqueue", mock.Anything).Once()

		input := validInput(playerID)
		input.Channels = []string{domain.ChannelApp, domain.ChannelEmail}
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)

		// App-only notifications never reach the push queue.
		_, err = svc.Create(ctx, validInput(playerID))
		require.NoError(t, err)

		mockPush.AssertExpectations(t)
	})
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	owner := domain.RecipientRef{Type: domain.RecipientPlayer, ID: uuid.New()}
	notifID := uuid.New()

	unread := func() *domain.Notification {
		return &domain.Notification{
			ID:            notifID,
			RecipientType: owner.Type,
			RecipientID:   owner.ID,
			Type:          domain.NotifSystem,
			Status:        domain.StatusPending,
		}
	}

	t.Run("First Call Sets ReadAt", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

		readAt := time.Now()
		read := unread()
		read.Status = domain.StatusRead
		read.ReadAt = &readAt

		mockRepo.On("GetByID", ctx, notifID).Return(unread(), nil).Once()
		mockRepo.On("MarkAsRead", ctx, notifID).Return(true, nil).Once()
		mockRepo.On("GetByID", ctx, notifID).Return(read, nil).Once()

		notif, err := svc.MarkAsRead(ctx, notifID, owner)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRead, notif.Status)
		require.NotNil(t, notif.ReadAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Idempotent On Already Read", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

		readAt := time.Now().Add(-time.Hour)
		read := unread()
		read.Status = domain.StatusRead
		read.ReadAt = &readAt

		mockRepo.On("GetByID", ctx, notifID).Return(read, nil).Once()

		notif, err := svc.MarkAsRead(ctx, notifID, owner)

		require.NoError(t, err)
		assert.Equal(t, readAt, *notif.ReadAt, "read_at is first-write-wins")
		mockRepo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

		mockRepo.On("GetByID", ctx, notifID).Return(nil, sql.ErrNoRows).Once()

		notif, err := svc.MarkAsRead(ctx, notifID, owner)

		assert.Nil(t, notif)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Not Owned By Requester", func(t *testing.T) {
		mockRepo := new(mocks.NotificationRepository)
		svc := notification.NewService(mockRepo, new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

		mockRepo.On("GetByID", ctx, notifID).Return(unread(), nil).Once()

		other := domain.RecipientRef{Type: domain.RecipientCoach, ID: uuid.New()}
		notif, err := svc.MarkAsRead(ctx, notifID, other)

		assert.Nil(t, notif)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		// No mutation on an ownership miss.
		mockRepo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	recipient := domain.RecipientRef{Type: domain.RecipientCoach, ID: uuid.New()}

	mockRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(mockRepo, new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

	mockRepo.On("MarkAllAsRead", ctx, recipient).Return(int64(7), nil).Once()

	count, err := svc.MarkAllAsRead(ctx, recipient)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	mockRepo.AssertExpectations(t)
}

func TestNotificationService_Status(t *testing.T) {
	svc := notification.NewService(new(mocks.NotificationRepository), new(mocks.RecipientRepository), delivery.NewMemoryChannel(), nil)

	status := svc.Status()
	assert.Equal(t, delivery.ModeMemory, status.Mode)
	assert.Equal(t, 0, status.ActiveSubscriptions)

	recipient := domain.RecipientRef{Type: domain.RecipientPlayer, ID: uuid.New()}
	unsubscribe, err := svc.Subscribe(recipient, func(*domain.Notification) {})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.Status().ActiveSubscriptions)

	unsubscribe()
	assert.Equal(t, 0, svc.Status().ActiveSubscriptions)
}
