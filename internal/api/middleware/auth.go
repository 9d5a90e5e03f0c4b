package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

// Context keys set by Session for authenticated requests.
const (
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// Authenticator resolves a session token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*ports.Identity, error)
}

// Session resolves the request's token, when there is one, and stores the
// identity in the echo context. Requests without a valid session continue
// anonymously; route guards decide whether that is enough.
func Session(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromRequest(c)
			if token == "" {
				return next(c)
			}

			id, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return next(c)
				}
				return err
			}

			c.Set(ContextKeyUserID, id.UserID)
			c.Set(ContextKeySessionID, id.SessionID)
			return next(c)
		}
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// UserID returns the session user, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextKeyUserID).(string)
	return id
}

// SessionID returns the current session id, or "".
func SessionID(c echo.Context) string {
	id, _ := c.Get(ContextKeySessionID).(string)
	return id
}
