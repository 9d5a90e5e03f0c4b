package guard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhub/blog/internal/api/middleware"
)

func newContext(method, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeySessionID, "sid-"+userID)
	}
	return c, rec
}

func recordingGuard(name string, trace *[]string, d Decision) Guard {
	return Func(name, func(_ echo.Context, _ *RequestContext) Decision {
		*trace = append(*trace, name)
		return d
	})
}

func TestPipeline_RunsGuardsInOrderThenHandler(t *testing.T) {
	var trace []string
	p := New(recordingGuard("a", &trace, Continue())).
		Then(recordingGuard("b", &trace, Continue()))

	c, rec := newContext(http.MethodGet, "u1")
	err := p.Handle(func(c echo.Context, rc *RequestContext) error {
		trace = append(trace, "handler")
		assert.Equal(t, "u1", rc.SessionUserID)
		assert.Equal(t, "sid-u1", rc.SessionID)
		return c.NoContent(http.StatusOK)
	})(c)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "handler"}, trace)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPipeline_FirstTerminationWins(t *testing.T) {
	var trace []string
	cause := errors.New("nope")
	p := New(
		recordingGuard("a", &trace, Continue()),
		recordingGuard("b", &trace, Terminate(http.StatusForbidden, cause)),
		recordingGuard("c", &trace, Terminate(http.StatusNotFound, nil)),
	)

	c, _ := newContext(http.MethodGet, "")
	err := p.Handle(func(echo.Context, *RequestContext) error {
		t.Fatal("handler must not run")
		return nil
	})(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "nope", he.Message)
	assert.ErrorIs(t, he.Internal, cause)
	assert.Equal(t, []string{"a", "b"}, trace)
}

func TestPipeline_TerminateWithoutCauseUsesStatusText(t *testing.T) {
	p := New(Func("x", func(echo.Context, *RequestContext) Decision {
		return Terminate(http.StatusNotFound, nil)
	}))

	c, _ := newContext(http.MethodGet, "")
	err := p.Handle(func(echo.Context, *RequestContext) error { return nil })(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusText(http.StatusNotFound), he.Message)
}

func TestPipeline_FailPassesErrorThrough(t *testing.T) {
	boom := errors.New("storage down")
	p := New(Func("x", func(echo.Context, *RequestContext) Decision { return Fail(boom) }))

	c, _ := newContext(http.MethodGet, "")
	err := p.Handle(func(echo.Context, *RequestContext) error { return nil })(c)

	assert.ErrorIs(t, err, boom)
	var he *echo.HTTPError
	assert.False(t, errors.As(err, &he))
}

func TestPipeline_ThenDoesNotMutateBase(t *testing.T) {
	base := New(Func("a", func(echo.Context, *RequestContext) Decision { return Continue() }))
	extended := base.Then(Func("b", func(echo.Context, *RequestContext) Decision { return Continue() }))

	assert.Equal(t, []string{"a"}, base.Names())
	assert.Equal(t, []string{"a", "b"}, extended.Names())
}

func TestPipeline_GuardsShareRequestContext(t *testing.T) {
	p := New(
		Func("set", func(_ echo.Context, rc *RequestContext) Decision {
			rc.SessionID = "changed"
			return Continue()
		}),
	)

	c, _ := newContext(http.MethodGet, "u1")
	var seen string
	err := p.Handle(func(_ echo.Context, rc *RequestContext) error {
		seen = rc.SessionID
		return nil
	})(c)

	require.NoError(t, err)
	assert.Equal(t, "changed", seen)
}
