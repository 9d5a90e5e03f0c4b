package domain

import (
	"errors"
	"time"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")
var ErrSubscriptionExists = errors.New("subscription already exists")

// Subscription records that Owner follows Target's feed.
type Subscription struct {
	ID      string    `json:"id"`
	Owner   string    `json:"owner"`
	Target  string    `json:"target"`
	Created time.Time `json:"created"`
}

// OwnedBy reports whether userID owns the subscription.
func (s *Subscription) OwnedBy(userID string) bool {
	return userID != "" && s.Owner == userID
}
