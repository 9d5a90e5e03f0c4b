package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/api/metrics"
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

const maxNotificationsListed = 100

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, postID string) (bool, error)
	Mark(ctx context.Context, postID string) error
}

type notificationService struct {
	subscriptions ports.SubscriptionRepository
	notifications ports.NotificationRepository
	dedup         DedupChecker
	log           zerolog.Logger
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(
	subscriptions ports.SubscriptionRepository,
	notifications ports.NotificationRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		subscriptions: subscriptions,
		notifications: notifications,
		dedup:         dedup,
		log:           log,
	}
}

// Process delivers one notification per subscriber of the post's author.
func (s *notificationService) Process(ctx context.Context, in ports.PublishedPostInput) error {
	// 1. Idempotency check: a publication is announced once.
	isDup, err := s.dedup.IsDuplicate(ctx, in.PostID)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", in.PostID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("post_id", in.PostID).Msg("duplicate publication skipped")
		return nil
	}
	metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Who follows the author.
	subs, err := s.subscriptions.ListByTarget(ctx, in.AuthorID)
	if err != nil {
		metrics.NotificationsErrorsTotal.WithLabelValues("load_subscribers").Inc()
		return fmt.Errorf("process publication: %w", err)
	}

	// 3. Mark before writing so a retry does not deliver twice.
	if markErr := s.dedup.Mark(ctx, in.PostID); markErr != nil {
		s.log.Warn().Err(markErr).Str("post_id", in.PostID).Msg("failed to set dedup key")
	}

	if len(subs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := make([]*domain.Notification, 0, len(subs))
	for _, sub := range subs {
		batch = append(batch, &domain.Notification{
			Recipient: sub.Owner,
			Author:    in.AuthorID,
			PostID:    in.PostID,
			PostSlug:  in.Slug,
			PostTitle: in.Title,
			Created:   now,
		})
	}

	if err := s.notifications.InsertMany(ctx, batch); err != nil {
		metrics.NotificationsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process publication: insert: %w", err)
	}

	metrics.NotificationsDeliveredTotal.Add(float64(len(batch)))
	s.log.Info().
		Str("post_id", in.PostID).
		Str("author", in.AuthorID).
		Int("recipients", len(batch)).
		Msg("publication announced")

	return nil
}

func (s *notificationService) List(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > maxNotificationsListed {
		limit = maxNotificationsListed
	}
	items, err := s.notifications.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}
