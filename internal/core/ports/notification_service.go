package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// NotificationService fans publications out to subscribers.
type NotificationService interface {
	Process(ctx context.Context, event PublishedPostInput) error
	List(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}
