package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// SubscriptionRepository defines persistence operations for subscriptions.
type SubscriptionRepository interface {
	// Create inserts the subscription and assigns its ID.
	// Returns domain.ErrSubscriptionExists for a repeated (owner, target) pair.
	Create(ctx context.Context, s *domain.Subscription) error
	FindByID(ctx context.Context, id string) (*domain.Subscription, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Subscription, error)
	ListByTarget(ctx context.Context, targetID string) ([]*domain.Subscription, error)
	Update(ctx context.Context, s *domain.Subscription) error
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every subscription the user owns or is the target of.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
