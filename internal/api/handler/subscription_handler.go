package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/guard"
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type SubscriptionHandler struct {
	subscriptions ports.SubscriptionService
}

func NewSubscriptionHandler(subscriptions ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Create handles POST /subscriptions/.
//
// @Summary      Follow a user
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscriptionRequest  true  "Target username or id"
// @Success      201   {object}  subscriptionResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse  "unknown target"
// @Failure      409   {object}  errorResponse  "already subscribed"
// @Failure      422   {object}  errorResponse
// @Router       /subscriptions/ [post]
func (h *SubscriptionHandler) Create(c echo.Context, rc *guard.RequestContext) error {
	var req subscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.subscriptions.Create(c.Request().Context(), rc.SessionUserID, req.Target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, subscriptionResponse{Subscription: sub})
}

// List handles GET /subscriptions/.
//
// @Summary      List the session's subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listSubscriptionsResponse
// @Failure      401  {object}  errorResponse
// @Router       /subscriptions/ [get]
func (h *SubscriptionHandler) List(c echo.Context, rc *guard.RequestContext) error {
	subs, err := h.subscriptions.ListByOwner(c.Request().Context(), rc.SessionUserID)
	if err != nil {
		return err
	}
	if subs == nil {
		subs = []*domain.Subscription{}
	}
	return c.JSON(http.StatusOK, listSubscriptionsResponse{Subscriptions: subs})
}

// Get handles GET /subscriptions/:id.
//
// @Summary      Get a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscription id"
// @Success      200  {object}  subscriptionResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c echo.Context, rc *guard.RequestContext) error {
	return c.JSON(http.StatusOK, subscriptionResponse{Subscription: rc.Subscription})
}

// Update handles PUT /subscriptions/:id.
//
// @Summary      Retarget a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Subscription id"
// @Param        body  body      subscriptionRequest  true  "New target"
// @Success      200   {object}  subscriptionResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /subscriptions/{id} [put]
func (h *SubscriptionHandler) Update(c echo.Context, rc *guard.RequestContext) error {
	var req subscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.subscriptions.Update(c.Request().Context(), rc.Subscription, req.Target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subscriptionResponse{Subscription: sub})
}

// Remove handles DELETE /subscriptions/:id.
//
// @Summary      Unfollow
// @Tags         subscriptions
// @Security     BearerAuth
// @Param        id   path  string  true  "Subscription id"
// @Success      200
// @Success      303  "browser clients are redirected to /"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /subscriptions/{id} [delete]
func (h *SubscriptionHandler) Remove(c echo.Context, rc *guard.RequestContext) error {
	if err := h.subscriptions.Remove(c.Request().Context(), rc.Subscription); err != nil {
		return err
	}
	return respondRemoved(c)
}
