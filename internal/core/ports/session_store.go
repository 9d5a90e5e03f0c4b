package ports

import (
	"context"
	"time"
)

// SessionStore keeps track of live login sessions so that tokens can be revoked.
type SessionStore interface {
	Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Lookup returns the user bound to sessionID or domain.ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}
