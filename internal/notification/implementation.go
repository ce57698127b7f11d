// internal/notification/implementation.go
package notification

import (
	"context"
	"fmt"
	"time"

	"reclaim/internal/lostfound"
	"reclaim/internal/recordstore"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	store recordstore.Store
	now   func() time.Time
}

// NewService creates a new notification service instance.
func NewService(store recordstore.Store) Service {
	return &service{store: store, now: time.Now}
}

// Notify appends a notification for the reporter of the given case. It fails
// NotFound when the case does not exist and always succeeds otherwise.
func (s *service) Notify(ctx context.Context, caseNumber, recipientID string, kind lostfound.NotificationType, message string) (*lostfound.Notification, error) {
	if _, err := s.store.GetLostReport(ctx, caseNumber); err != nil {
		return nil, fmt.Errorf("resolving case: %w", err)
	}

	n := &lostfound.Notification{
		NotificationID:  uuid.NewString(),
		RecipientUserID: recipientID,
		CaseNumber:      caseNumber,
		Type:            kind,
		Message:         message,
		Date:            s.now().UTC(),
		Status:          lostfound.NotificationUnread,
	}

	if err := s.store.AppendNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("appending notification: %w", err)
	}
	return n, nil
}

// List returns the recipient's notifications, newest first.
func (s *service) List(ctx context.Context, userID string) ([]lostfound.Notification, error) {
	return s.store.ListNotifications(ctx, userID)
}

// MarkRead transitions a notification from unread to read.
func (s *service) MarkRead(ctx context.Context, notificationID string) error {
	return s.store.MarkNotificationRead(ctx, notificationID)
}
