package domain

import "time"

// Notification tells a subscriber that an author they follow published a post.
type Notification struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Author    string    `json:"author"`
	PostID    string    `json:"postId"`
	PostSlug  string    `json:"postSlug"`
	PostTitle string    `json:"postTitle"`
	Created   time.Time `json:"created"`
}
