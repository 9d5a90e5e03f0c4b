package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 7 * 24 * time.Hour

// DedupChecker remembers which posts have already been announced to subscribers.
// Key format: notify:published:<post_id>
type DedupChecker struct {
	client *redis.Client
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether the post's publication was already fanned out.
func (d *DedupChecker) IsDuplicate(ctx context.Context, postID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := d.client.Exists(ctx, d.key(postID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the announcement. The key expires after dedupTTL.
func (d *DedupChecker) Mark(ctx context.Context, postID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return d.client.Set(ctx, d.key(postID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(postID string) string {
	return "notify:published:" + postID
}
