package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/logger"
	"github.com/rosterd/rosterd/internal/pkg/ws"
)

// notificationStore is the slice of the notification repository the service needs
type notificationStore interface {
	Create(ctx context.Context, q db.Querier, n *models.Notification) error
	ListByUser(ctx context.Context, q db.Querier, userID uuid.UUID, isRead *bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, q db.Querier, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, q db.Querier, userID uuid.UUID) (int64, error)
}

// NotificationService manages per-user notification inboxes and pushes new
// entries to connected websocket clients.
type NotificationService struct {
	notifications notificationStore
	hub           *ws.Hub
}

// NewNotificationService creates a new notification service instance. hub
// may be nil, in which case entries are stored without being pushed.
func NewNotificationService(notifications notificationStore, hub *ws.Hub) *NotificationService {
	return &NotificationService{notifications: notifications, hub: hub}
}

// Notify stores a notification for a user and pushes it to any open
// connections. Failures are logged and swallowed so the operation that
// triggered the notification never fails because of it.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, nType models.NotificationType, title, content string, relatedID *uuid.UUID) {
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Type:      nType,
		RelatedID: relatedID,
	}
	if err := s.notifications.Create(ctx, nil, n); err != nil {
		logger.Error().Err(err).
			Str("userID", userID.String()).
			Str("type", string(nType)).
			Msg("Failed to store notification")
		return
	}
	if s.hub != nil {
		s.hub.Push(userID, n)
	}
}

// ListNotifications retrieves a user's notifications, newest first,
// optionally filtered by read state.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, isRead *bool) ([]*models.Notification, error) {
	return s.notifications.ListByUser(ctx, nil, userID, isRead)
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.notifications.MarkRead(ctx, nil, id, userID)
}

// MarkAllRead flags all of the user's notifications as read and reports how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, nil, userID)
}
