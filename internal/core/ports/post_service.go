package ports

import (
	"context"

	"github.com/quillhub/blog/internal/core/domain"
)

// CreatePostInput carries the data needed to create a post.
type CreatePostInput struct {
	Title string
	Body  string
	// IsPrivate defaults to false when nil.
	IsPrivate *bool
	OwnerID   string
}

// UpdatePostInput carries a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title     *string
	Body      *string
	IsPrivate *bool
}

// ListPostsInput carries the parameters for the list endpoints.
type ListPostsInput struct {
	ViewerID string
	// AuthorID restricts the listing to one author when non-empty.
	AuthorID string
	Page     Page
}

// ListPostsResult is returned by the list operations.
type ListPostsResult struct {
	Items []*domain.Post
	PageInfo
}

// PublishedPostInput describes a post that just became public.
type PublishedPostInput struct {
	PostID   string
	Slug     string
	Title    string
	AuthorID string
}

// PublicationNotifier is told about every first publication.
type PublicationNotifier interface {
	Enqueue(event PublishedPostInput)
}

// PostService defines use-case operations for posts.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	// Get resolves a post by slug or, failing that, by ID.
	Get(ctx context.Context, slugOrID string) (*domain.Post, error)
	List(ctx context.Context, input ListPostsInput) (*ListPostsResult, error)
	// Feed lists public posts of the users viewerID subscribes to.
	Feed(ctx context.Context, viewerID string, page Page) (*ListPostsResult, error)
	Update(ctx context.Context, p *domain.Post, input UpdatePostInput) (*domain.Post, error)
	Remove(ctx context.Context, p *domain.Post) error
}
