package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// NotificationRepository persists subscriber notifications.
type NotificationRepository interface {
	InsertMany(ctx context.Context, notifications []*domain.Notification) error
	// ListByRecipient returns the newest notifications first.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
