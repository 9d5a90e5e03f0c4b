package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// ListPostsFilter carries the query parameters for listing posts.
type ListPostsFilter struct {
	// OwnerIDs restricts results to these authors. Nil means any author;
	// an empty non-nil slice matches nothing.
	OwnerIDs []string
	// ViewerID's private posts are included; everyone else's are not.
	ViewerID string
	Page     Page
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create inserts the post and assigns its ID.
	// Returns domain.ErrDuplicateSlug when the slug is already stored.
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	// SlugsWithPrefix returns every stored slug that starts with base.
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	// List returns a page of posts, newest first, and the total count.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
