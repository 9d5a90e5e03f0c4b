package handler

import (
	"github.com/quillhub/blog/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createPostRequest struct {
	Title     string `json:"title"     validate:"required,max=200"`
	Body      string `json:"body"      validate:"required"`
	IsPrivate *bool  `json:"isPrivate"`
}

// updatePostRequest is a partial update; absent fields keep their value.
type updatePostRequest struct {
	Title     *string `json:"title"     validate:"omitempty,max=200"`
	Body      *string `json:"body"`
	IsPrivate *bool   `json:"isPrivate"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type updateUserRequest struct {
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// subscriptionRequest names the followed user by username or id.
type subscriptionRequest struct {
	Target string `json:"target" validate:"required"`
}

// --- Response types ---

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type postResponse struct {
	Post *domain.Post `json:"post"`
}

type createPostResponse struct {
	Post *domain.Post `json:"post"`
	URL  string       `json:"url"`
}

type listPostsResponse struct {
	Posts      []*domain.Post     `json:"posts"`
	Pagination paginationResponse `json:"pagination"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type listUsersResponse struct {
	Users      []*domain.User     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type subscriptionResponse struct {
	Subscription *domain.Subscription `json:"subscription"`
}

type listSubscriptionsResponse struct {
	Subscriptions []*domain.Subscription `json:"subscriptions"`
}

type listNotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
}
