package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/core/ports"
)

// wantsHTML reports whether the client is a browser expecting a page rather
// than JSON. Such clients are redirected after login, logout and removals.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// respondRemoved answers a successful delete: 200 with no body for API
// clients, 303 to the home page for browsers.
func respondRemoved(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.NoContent(http.StatusOK)
}

// readPage binds the page and limit query parameters.
func readPage(c echo.Context) (ports.Page, error) {
	var p ports.Page
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Number).
		Int("limit", &p.Limit).
		BindError()
	if err != nil || p.Number > ports.MaxPageNumber {
		return ports.Page{}, echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	return p.Normalize(), nil
}

// bindAndValidate binds the request body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
