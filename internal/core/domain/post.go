package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrDuplicateSlug = errors.New("slug already taken")

// Post is a piece of writing owned by exactly one user.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Body      string     `json:"body"`
	IsPrivate bool       `json:"isPrivate"`
	Owner     string     `json:"owner"`
	Created   time.Time  `json:"created"`
	Published *time.Time `json:"published,omitempty"`
}

// OwnedBy reports whether userID owns the post. An empty userID never owns anything.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.Owner == userID
}

// VisibleTo reports whether userID may read the post.
func (p *Post) VisibleTo(userID string) bool {
	return !p.IsPrivate || p.OwnedBy(userID)
}

// SetPrivate changes the post's visibility. The first time the post is public
// Published is stamped with now; it is never moved afterwards. The return value
// reports whether this call published the post.
func (p *Post) SetPrivate(private bool, now time.Time) bool {
	p.IsPrivate = private
	if private || p.Published != nil {
		return false
	}
	ts := now.UTC()
	p.Published = &ts
	return true
}
