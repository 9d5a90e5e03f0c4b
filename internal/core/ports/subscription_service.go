package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// SubscriptionService defines use-case operations for subscriptions.
// Targets are addressed by username or user ID.
type SubscriptionService interface {
	Create(ctx context.Context, ownerID, target string) (*domain.Subscription, error)
	Get(ctx context.Context, id string) (*domain.Subscription, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Subscription, error)
	Update(ctx context.Context, s *domain.Subscription, target string) (*domain.Subscription, error)
	Remove(ctx context.Context, s *domain.Subscription) error
}
