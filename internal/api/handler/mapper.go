package handler

import (
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

// --- Request → Service input ---

func toCreatePostInput(req createPostRequest, ownerID string) ports.CreatePostInput {
	return ports.CreatePostInput{
		Title:     req.Title,
		Body:      req.Body,
		IsPrivate: req.IsPrivate,
		OwnerID:   ownerID,
	}
}

func toUpdatePostInput(req updatePostRequest) ports.UpdatePostInput {
	return ports.UpdatePostInput{
		Title:     req.Title,
		Body:      req.Body,
		IsPrivate: req.IsPrivate,
	}
}

// --- Service result → HTTP response ---

func postURL(p *domain.Post) string {
	return "/posts/" + p.Slug
}

func toPagination(info ports.PageInfo) paginationResponse {
	return paginationResponse{
		Total:      info.Total,
		Page:       info.Page,
		Limit:      info.Limit,
		TotalPages: info.TotalPages,
	}
}

func toListPostsResponse(r *ports.ListPostsResult) listPostsResponse {
	posts := r.Items
	if posts == nil {
		posts = []*domain.Post{}
	}
	return listPostsResponse{Posts: posts, Pagination: toPagination(r.PageInfo)}
}

func toListUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	users := r.Items
	if users == nil {
		users = []*domain.User{}
	}
	return listUsersResponse{Users: users, Pagination: toPagination(r.PageInfo)}
}
