// internal/notification/service.go
package notification

import (
	"context"

	"reclaim/internal/lostfound"
)

// Service defines the interface for the notification service. Delivery is
// pull-based: records are appended on transitions and fetched on demand.
type Service interface {
	Notify(ctx context.Context, caseNumber, recipientID string, kind lostfound.NotificationType, message string) (*lostfound.Notification, error)
	List(ctx context.Context, userID string) ([]lostfound.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}
