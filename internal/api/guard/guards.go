package guard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/core/domain"
)

// Access selects what LoginOrContinue lets through without a session.
type Access int

const (
	// SessionRequired rejects every anonymous request.
	SessionRequired Access = iota
	// AnonymousReads lets anonymous GET and HEAD requests continue.
	AnonymousReads
)

// ErrPrivatePost is the cause attached when a private post is hidden from the session.
var ErrPrivatePost = fmt.Errorf("%w: post is private", domain.ErrUnauthenticated)

type PostGetter interface {
	Get(ctx context.Context, slugOrID string) (*domain.Post, error)
}

type SubscriptionGetter interface {
	Get(ctx context.Context, id string) (*domain.Subscription, error)
}

type UserGetter interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

type UsernameGetter interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// LoginOrContinue terminates with 401 unless the request has a session or
// access allows it anonymously.
func LoginOrContinue(access Access) Guard {
	return Func("login", func(c echo.Context, rc *RequestContext) Decision {
		if rc.LoggedIn() {
			return Continue()
		}
		if access == AnonymousReads && isRead(c.Request().Method) {
			return Continue()
		}
		return Terminate(http.StatusUnauthorized, domain.ErrUnauthenticated)
	})
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// LoadLoggedInUser fetches the session user into rc.CurrentUser. Anonymous
// requests pass through untouched. A session whose user was deleted gets 401.
func LoadLoggedInUser(users UserGetter) Guard {
	return Func("load_logged_in_user", func(c echo.Context, rc *RequestContext) Decision {
		if !rc.LoggedIn() {
			return Continue()
		}
		u, err := users.Get(c.Request().Context(), rc.SessionUserID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return Terminate(http.StatusUnauthorized, domain.ErrUnauthenticated)
		}
		if err != nil {
			return Fail(err)
		}
		rc.CurrentUser = u
		return Continue()
	})
}

// LoadPost resolves the post named by the path parameter (slug or id).
func LoadPost(posts PostGetter, param string) Guard {
	return Func("load_post", func(c echo.Context, rc *RequestContext) Decision {
		p, err := posts.Get(c.Request().Context(), c.Param(param))
		if errors.Is(err, domain.ErrPostNotFound) {
			return Terminate(http.StatusNotFound, err)
		}
		if err != nil {
			return Fail(err)
		}
		rc.Post = p
		return Continue()
	})
}

func LoadSubscription(subs SubscriptionGetter, param string) Guard {
	return Func("load_subscription", func(c echo.Context, rc *RequestContext) Decision {
		s, err := subs.Get(c.Request().Context(), c.Param(param))
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return Terminate(http.StatusNotFound, err)
		}
		if err != nil {
			return Fail(err)
		}
		rc.Subscription = s
		return Continue()
	})
}

// LoadUser resolves the user named by the path parameter (username).
func LoadUser(users UsernameGetter, param string) Guard {
	return Func("load_user", func(c echo.Context, rc *RequestContext) Decision {
		u, err := users.GetByUsername(c.Request().Context(), c.Param(param))
		if errors.Is(err, domain.ErrUserNotFound) {
			return Terminate(http.StatusNotFound, err)
		}
		if err != nil {
			return Fail(err)
		}
		rc.User = u
		return Continue()
	})
}

// OwnedByUser answers 401 without a session and 403 when the session is not
// the owner returned by owner. owner reports false when the record it needs
// was never loaded, which is a wiring mistake and fails the request.
func OwnedByUser(name string, owner func(rc *RequestContext) (string, bool)) Guard {
	return Func(name, func(_ echo.Context, rc *RequestContext) Decision {
		ownerID, ok := owner(rc)
		if !ok {
			return Fail(fmt.Errorf("guard %s: record not loaded", name))
		}
		if !rc.LoggedIn() {
			return Terminate(http.StatusUnauthorized, domain.ErrUnauthenticated)
		}
		if ownerID != rc.SessionUserID {
			return Terminate(http.StatusForbidden, domain.ErrForbidden)
		}
		return Continue()
	})
}

func PostOwnedByUser() Guard {
	return OwnedByUser("post_owned_by_user", func(rc *RequestContext) (string, bool) {
		if rc.Post == nil {
			return "", false
		}
		return rc.Post.Owner, true
	})
}

func SubscriptionOwnedByUser() Guard {
	return OwnedByUser("subscription_owned_by_user", func(rc *RequestContext) (string, bool) {
		if rc.Subscription == nil {
			return "", false
		}
		return rc.Subscription.Owner, true
	})
}

// SelfOnly requires the addressed user to be the session user.
func SelfOnly() Guard {
	return OwnedByUser("self_only", func(rc *RequestContext) (string, bool) {
		if rc.User == nil {
			return "", false
		}
		return rc.User.ID, true
	})
}

// PublicOrOwned lets public posts through and hides private ones from
// everyone but their owner with 401.
func PublicOrOwned() Guard {
	return Func("public_or_owned", func(_ echo.Context, rc *RequestContext) Decision {
		if rc.Post == nil {
			return Fail(errors.New("guard public_or_owned: post not loaded"))
		}
		if rc.Post.VisibleTo(rc.SessionUserID) {
			return Continue()
		}
		return Terminate(http.StatusUnauthorized, ErrPrivatePost)
	})
}
