package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// UpdateUserInput carries the mutable user fields; nil means unchanged.
type UpdateUserInput struct {
	Password *string
}

// ListUsersResult is returned by UserService.List.
type ListUsersResult struct {
	Items []*domain.User
	PageInfo
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, page Page) (*ListUsersResult, error)
	Update(ctx context.Context, user *domain.User, input UpdateUserInput) (*domain.User, error)
	// Remove deletes the user together with their posts and subscriptions.
	Remove(ctx context.Context, user *domain.User) error
}
