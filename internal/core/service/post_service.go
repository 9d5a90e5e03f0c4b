package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/api/metrics"
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

// maxSlugAttempts bounds slug regeneration when a concurrent insert wins the
// race for the same slug.
const maxSlugAttempts = 5

type PostService struct {
	repo          ports.PostRepository
	subscriptions ports.SubscriptionRepository
	notifier      ports.PublicationNotifier
	logger        zerolog.Logger
}

// NewPostService wires the post use cases. notifier may be nil, in which case
// publications are not announced.
func NewPostService(
	repo ports.PostRepository,
	subscriptions ports.SubscriptionRepository,
	notifier ports.PublicationNotifier,
	logger zerolog.Logger,
) *PostService {
	return &PostService{repo: repo, subscriptions: subscriptions, notifier: notifier, logger: logger}
}

// Create validates the input, assigns a unique slug and persists the post.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", domain.ErrValidation)
	}
	if input.OwnerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:   title,
		Body:    input.Body,
		Owner:   input.OwnerID,
		Created: now,
	}
	published := post.SetPrivate(input.IsPrivate != nil && *input.IsPrivate, now)

	base := domain.Slugify(title)
	for attempt := 1; ; attempt++ {
		taken, err := s.repo.SlugsWithPrefix(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("create post: load slugs: %w", err)
		}
		post.Slug = domain.UniqueSlug(base, taken)

		err = s.repo.Create(ctx, post)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateSlug) && attempt < maxSlugAttempts {
			s.logger.Debug().Str("slug", post.Slug).Int("attempt", attempt).Msg("slug taken concurrently, retrying")
			continue
		}
		s.logger.Error().Err(err).Str("owner", input.OwnerID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.PostsCreatedTotal.WithLabelValues(visibility(post)).Inc()
	s.logger.Info().Str("post_id", post.ID).Str("slug", post.Slug).Str("owner", post.Owner).Msg("post created")

	if published {
		s.announce(post)
	}
	return post, nil
}

// Get resolves a post by slug first and by ID second, so a slug that happens
// to look like an ID still reaches its own post.
func (s *PostService) Get(ctx context.Context, slugOrID string) (*domain.Post, error) {
	post, err := s.repo.FindBySlug(ctx, slugOrID)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, domain.ErrPostNotFound) {
		return nil, err
	}
	return s.repo.FindByID(ctx, slugOrID)
}

// List returns public posts plus the viewer's own private ones.
func (s *PostService) List(ctx context.Context, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	filter := ports.ListPostsFilter{
		ViewerID: input.ViewerID,
		Page:     input.Page.Normalize(),
	}
	if input.AuthorID != "" {
		filter.OwnerIDs = []string{input.AuthorID}
	}
	return s.list(ctx, filter)
}

func (s *PostService) Feed(ctx context.Context, viewerID string, page ports.Page) (*ports.ListPostsResult, error) {
	subs, err := s.subscriptions.ListByOwner(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("feed: load subscriptions: %w", err)
	}

	targets := make([]string, 0, len(subs))
	for _, sub := range subs {
		targets = append(targets, sub.Target)
	}

	// ViewerID stays empty: the feed only carries public posts.
	return s.list(ctx, ports.ListPostsFilter{OwnerIDs: targets, Page: page.Normalize()})
}

func (s *PostService) list(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &ports.ListPostsResult{Items: posts, PageInfo: ports.NewPageInfo(filter.Page, total)}, nil
}

// Update applies a partial update. The slug is kept even when the title changes
// so that published URLs stay valid.
func (s *PostService) Update(ctx context.Context, post *domain.Post, input ports.UpdatePostInput) (*domain.Post, error) {
	var title string
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
	}
	if input.Body != nil && strings.TrimSpace(*input.Body) == "" {
		return nil, fmt.Errorf("%w: body cannot be empty", domain.ErrValidation)
	}

	if input.Title != nil {
		post.Title = title
	}
	if input.Body != nil {
		post.Body = *input.Body
	}
	published := false
	if input.IsPrivate != nil {
		published = post.SetPrivate(*input.IsPrivate, time.Now())
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.logger.Info().Str("post_id", post.ID).Bool("published", published).Msg("post updated")
	if published {
		s.announce(post)
	}
	return post, nil
}

func (s *PostService) Remove(ctx context.Context, post *domain.Post) error {
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	s.logger.Info().Str("post_id", post.ID).Str("owner", post.Owner).Msg("post removed")
	return nil
}

func (s *PostService) announce(post *domain.Post) {
	metrics.PostsPublishedTotal.Inc()
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(ports.PublishedPostInput{
		PostID:   post.ID,
		Slug:     post.Slug,
		Title:    post.Title,
		AuthorID: post.Owner,
	})
}

func visibility(p *domain.Post) string {
	if p.IsPrivate {
		return "private"
	}
	return "public"
}
