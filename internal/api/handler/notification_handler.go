package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/guard"
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications.
//
// @Summary      Publication notifications for the session user
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum items (<= 100)"
// @Success      200    {object}  listNotificationsResponse
// @Failure      401    {object}  errorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context, rc *guard.RequestContext) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, err := h.notifications.List(c.Request().Context(), rc.SessionUserID, limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return c.JSON(http.StatusOK, listNotificationsResponse{Notifications: items})
}
