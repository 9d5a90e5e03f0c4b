package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/guard"
	"github.com/quillhub/blog/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
	auth  ports.AuthService
}

func NewUserHandler(users ports.UserService, auth ports.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Create handles POST /users/ (signup).
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// List handles GET /users/.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page number"  default(1)
// @Param        limit  query     int  false  "Page size"    default(20)
// @Success      200    {object}  listUsersResponse
// @Router       /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := readPage(c)
	if err != nil {
		return err
	}

	result, err := h.users.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListUsersResponse(result))
}

// Get handles GET /users/:username.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context, rc *guard.RequestContext) error {
	return c.JSON(http.StatusOK, userResponse{User: rc.User})
}

// Update handles PUT /users/:username. Only the password can change.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateUserRequest  true  "New password"
// @Success      200       {object}  userResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /users/{username} [put]
func (h *UserHandler) Update(c echo.Context, rc *guard.RequestContext) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), rc.User, ports.UpdateUserInput{Password: req.Password})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Remove handles DELETE /users/:username. The account's posts and
// subscriptions go with it and the current session is closed.
//
// @Summary      Delete the account
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200
// @Success      303  "browser clients are redirected to /"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Remove(c echo.Context, rc *guard.RequestContext) error {
	ctx := c.Request().Context()
	if err := h.users.Remove(ctx, rc.User); err != nil {
		return err
	}
	if err := h.auth.Logout(ctx, rc.SessionID); err != nil {
		return err
	}
	clearSessionCookie(c)
	return respondRemoved(c)
}
