package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type SubscriptionService struct {
	repo  ports.SubscriptionRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewSubscriptionService(repo ports.SubscriptionRepository, users ports.UserRepository, log zerolog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, users: users, log: log}
}

func (s *SubscriptionService) Create(ctx context.Context, ownerID, target string) (*domain.Subscription, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	targetUser, err := s.resolveTarget(ctx, ownerID, target)
	if err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		Owner:   ownerID,
		Target:  targetUser.ID,
		Created: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.log.Info().Str("subscription_id", sub.ID).Str("owner", ownerID).Str("target", sub.Target).Msg("subscription created")
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SubscriptionService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Subscription, error) {
	subs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// Update points an existing subscription at a different user.
func (s *SubscriptionService) Update(ctx context.Context, sub *domain.Subscription, target string) (*domain.Subscription, error) {
	targetUser, err := s.resolveTarget(ctx, sub.Owner, target)
	if err != nil {
		return nil, err
	}
	if targetUser.ID == sub.Target {
		return sub, nil
	}

	next := *sub
	next.Target = targetUser.ID
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update subscription: %w", err)
	}
	*sub = next
	return sub, nil
}

func (s *SubscriptionService) Remove(ctx context.Context, sub *domain.Subscription) error {
	if err := s.repo.Delete(ctx, sub.ID); err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	s.log.Info().Str("subscription_id", sub.ID).Msg("subscription removed")
	return nil
}

// resolveTarget looks the target up by username, then by ID, and refuses
// self-subscriptions.
func (s *SubscriptionService) resolveTarget(ctx context.Context, ownerID, target string) (*domain.User, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("%w: target is required", domain.ErrValidation)
	}

	user, err := s.users.FindByUsername(ctx, target)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.FindByID(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	if user.ID == ownerID {
		return nil, fmt.Errorf("%w: cannot subscribe to yourself", domain.ErrValidation)
	}
	return user, nil
}
