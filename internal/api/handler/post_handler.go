package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/guard"
	"github.com/quillhub/blog/internal/core/ports"
)

// PostHandler handles HTTP requests for posts and feeds.
// Records it works on are loaded and authorized by the route's guard pipeline.
type PostHandler struct {
	posts ports.PostService
	users ports.UserService
}

func NewPostHandler(posts ports.PostService, users ports.UserService) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

// Create handles POST /posts/.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      200   {object}  createPostResponse
// @Header       200   {string}  Location  "URL of the new post"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts/ [post]
func (h *PostHandler) Create(c echo.Context, rc *guard.RequestContext) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), toCreatePostInput(req, rc.SessionUserID))
	if err != nil {
		return err
	}

	url := postURL(post)
	c.Response().Header().Set(echo.HeaderLocation, url)
	return c.JSON(http.StatusOK, createPostResponse{Post: post, URL: url})
}

// Get handles GET /posts/:slug.
//
// @Summary      Get a post by slug or id
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug or id"
// @Success      200   {object}  postResponse
// @Failure      401   {object}  errorResponse  "private post"
// @Failure      404   {object}  errorResponse
// @Router       /posts/{slug} [get]
func (h *PostHandler) Get(c echo.Context, rc *guard.RequestContext) error {
	return c.JSON(http.StatusOK, postResponse{Post: rc.Post})
}

// List handles GET /posts/. With ?author=<username> it lists one author.
//
// @Summary      List posts visible to the session
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        author  query     string  false  "Author username"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(20)
// @Success      200     {object}  listPostsResponse
// @Failure      401     {object}  errorResponse
// @Failure      404     {object}  errorResponse  "unknown author"
// @Router       /posts/ [get]
func (h *PostHandler) List(c echo.Context, rc *guard.RequestContext) error {
	page, err := readPage(c)
	if err != nil {
		return err
	}

	in := ports.ListPostsInput{ViewerID: rc.SessionUserID, Page: page}
	if author := c.QueryParam("author"); author != "" {
		u, err := h.users.GetByUsername(c.Request().Context(), author)
		if err != nil {
			return err
		}
		in.AuthorID = u.ID
	}

	result, err := h.posts.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPostsResponse(result))
}

// ListByUser handles GET /users/:username/posts.
//
// @Summary      List a user's posts
// @Description  Private posts are included only when the session owns them.
// @Tags         users
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        limit     query     int     false  "Page size"    default(20)
// @Success      200       {object}  listPostsResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/posts [get]
func (h *PostHandler) ListByUser(c echo.Context, rc *guard.RequestContext) error {
	page, err := readPage(c)
	if err != nil {
		return err
	}

	result, err := h.posts.List(c.Request().Context(), ports.ListPostsInput{
		ViewerID: rc.SessionUserID,
		AuthorID: rc.User.ID,
		Page:     page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPostsResponse(result))
}

// Feed handles GET /feed.
//
// @Summary      Public posts of the users the session follows
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(20)
// @Success      200    {object}  listPostsResponse
// @Failure      401    {object}  errorResponse
// @Router       /feed [get]
func (h *PostHandler) Feed(c echo.Context, rc *guard.RequestContext) error {
	page, err := readPage(c)
	if err != nil {
		return err
	}

	result, err := h.posts.Feed(c.Request().Context(), rc.SessionUserID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPostsResponse(result))
}

// Update handles PUT /posts/:slug.
//
// @Summary      Update a post
// @Description  Partial update. Making a post public for the first time stamps published.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug  path      string             true  "Post slug or id"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts/{slug} [put]
func (h *PostHandler) Update(c echo.Context, rc *guard.RequestContext) error {
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Update(c.Request().Context(), rc.Post, toUpdatePostInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{Post: post})
}

// Remove handles DELETE /posts/:slug.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        slug  path  string  true  "Post slug or id"
// @Success      200
// @Success      303   "browser clients are redirected to /"
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /posts/{slug} [delete]
func (h *PostHandler) Remove(c echo.Context, rc *guard.RequestContext) error {
	if err := h.posts.Remove(c.Request().Context(), rc.Post); err != nil {
		return err
	}
	return respondRemoved(c)
}
