package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type UserService struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	subscriptions ports.SubscriptionRepository
	notifications ports.NotificationRepository
	log           zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	posts ports.PostRepository,
	subscriptions ports.SubscriptionRepository,
	notifications ports.NotificationRepository,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:         users,
		posts:         posts,
		subscriptions: subscriptions,
		notifications: notifications,
		log:           log,
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, page ports.Page) (*ports.ListUsersResult, error) {
	page = page.Normalize()
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ports.ListUsersResult{Items: users, PageInfo: ports.NewPageInfo(page, total)}, nil
}

func (s *UserService) Update(ctx context.Context, user *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Remove deletes the account and everything that references it. Open sessions
// die on their next use because the user no longer resolves.
func (s *UserService) Remove(ctx context.Context, user *domain.User) error {
	posts, err := s.posts.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("remove user posts: %w", err)
	}
	subs, err := s.subscriptions.DeleteByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("remove user subscriptions: %w", err)
	}
	if _, err := s.notifications.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("remove user notifications: %w", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Int64("posts", posts).
		Int64("subscriptions", subs).
		Msg("user removed")
	return nil
}
