// Package guard implements the per-route authorization pipeline.
//
// A route is an ordered list of guards followed by a handler. Each guard sees
// the same *RequestContext, may load records into it, and either lets the
// request continue or terminates it with an HTTP status. The first termination
// wins: later guards and the handler never run.
package guard

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/metrics"
	"github.com/quillhub/blog/internal/api/middleware"
	"github.com/quillhub/blog/internal/core/domain"
)

// RequestContext carries the session identity and the records resolved for
// one request.
type RequestContext struct {
	SessionUserID string
	SessionID     string

	// CurrentUser is the session's user record, set by LoadLoggedInUser.
	CurrentUser *domain.User

	Post         *domain.Post
	Subscription *domain.Subscription
	// User is the user addressed by the route, not the session user.
	User *domain.User
}

// LoggedIn reports whether the request carries a session.
func (rc *RequestContext) LoggedIn() bool {
	return rc.SessionUserID != ""
}

// Decision is the outcome of one guard.
type Decision struct {
	status int
	err    error
}

// Continue lets the pipeline proceed to the next guard.
func Continue() Decision { return Decision{} }

// Terminate stops the pipeline and answers with status.
func Terminate(status int, err error) Decision {
	return Decision{status: status, err: err}
}

// Fail stops the pipeline with an unexpected error; the error handler renders it.
func Fail(err error) Decision {
	return Decision{err: err}
}

// Stopped reports whether the decision ends the pipeline.
func (d Decision) Stopped() bool {
	return d.status != 0 || d.err != nil
}

// Status is the HTTP status of a termination, or 0.
func (d Decision) Status() int { return d.status }

func (d Decision) Err() error { return d.err }

// Guard is one step of a route's pipeline.
type Guard interface {
	Name() string
	Check(c echo.Context, rc *RequestContext) Decision
}

type funcGuard struct {
	name string
	fn   func(c echo.Context, rc *RequestContext) Decision
}

// Func adapts a function to the Guard interface.
func Func(name string, fn func(c echo.Context, rc *RequestContext) Decision) Guard {
	return funcGuard{name: name, fn: fn}
}

func (g funcGuard) Name() string { return g.name }

func (g funcGuard) Check(c echo.Context, rc *RequestContext) Decision { return g.fn(c, rc) }

// Handler is the final step of a pipeline.
type Handler func(c echo.Context, rc *RequestContext) error

// Pipeline is an ordered, immutable list of guards.
type Pipeline struct {
	guards []Guard
}

func New(guards ...Guard) Pipeline {
	return Pipeline{guards: append([]Guard(nil), guards...)}
}

// Then returns a new pipeline with guards appended; p is not modified.
func (p Pipeline) Then(guards ...Guard) Pipeline {
	out := make([]Guard, 0, len(p.guards)+len(guards))
	out = append(out, p.guards...)
	out = append(out, guards...)
	return Pipeline{guards: out}
}

// Names lists the guards in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.guards))
	for i, g := range p.guards {
		names[i] = g.Name()
	}
	return names
}

// Handle builds the echo handler running the guards and then h.
func (p Pipeline) Handle(h Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		rc := &RequestContext{
			SessionUserID: middleware.UserID(c),
			SessionID:     middleware.SessionID(c),
		}

		for _, g := range p.guards {
			d := g.Check(c, rc)
			if !d.Stopped() {
				continue
			}
			if d.status == 0 {
				return d.err
			}

			metrics.GuardRejectionsTotal.WithLabelValues(g.Name(), strconv.Itoa(d.status)).Inc()
			msg := http.StatusText(d.status)
			if d.err != nil {
				msg = d.err.Error()
			}
			return echo.NewHTTPError(d.status, msg).SetInternal(d.err)
		}

		return h(c, rc)
	}
}
