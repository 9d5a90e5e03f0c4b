package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type stubAuthenticator struct {
	tokens map[string]*ports.Identity
	err    error
	seen   string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*ports.Identity, error) {
	s.seen = token
	if s.err != nil {
		return nil, s.err
	}
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return nil, domain.ErrUnauthenticated
}

func runSession(t *testing.T, auth Authenticator, req *http.Request) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Session(auth)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestSession_BearerToken(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]*ports.Identity{
		"good": {UserID: "u1", SessionID: "s1"},
	}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	c, called, err := runSession(t, auth, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	if UserID(c) != "u1" || SessionID(c) != "s1" {
		t.Fatalf("identity not stored: user=%q session=%q", UserID(c), SessionID(c))
	}
}

func TestSession_Cookie(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]*ports.Identity{
		"cookie-token": {UserID: "u2", SessionID: "s2"},
	}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})

	c, _, err := runSession(t, auth, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if UserID(c) != "u2" {
		t.Fatalf("expected u2, got %q", UserID(c))
	}
}

func TestSession_NoTokenIsAnonymous(t *testing.T) {
	auth := &stubAuthenticator{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	c, called, err := runSession(t, auth, req)
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v called=%v", err, called)
	}
	if UserID(c) != "" {
		t.Fatalf("expected anonymous, got %q", UserID(c))
	}
	if auth.seen != "" {
		t.Fatal("authenticator should not be consulted without a token")
	}
}

func TestSession_InvalidTokenIsAnonymous(t *testing.T) {
	auth := &stubAuthenticator{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	c, called, err := runSession(t, auth, req)
	if err != nil || !called {
		t.Fatalf("expected next to run, err=%v called=%v", err, called)
	}
	if UserID(c) != "" {
		t.Fatalf("expected anonymous, got %q", UserID(c))
	}
}

func TestSession_MalformedHeaderIgnoresCookie(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]*ports.Identity{
		"cookie-token": {UserID: "u2", SessionID: "s2"},
	}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})

	c, _, _ := runSession(t, auth, req)
	if UserID(c) != "" {
		t.Fatalf("expected anonymous, got %q", UserID(c))
	}
}

func TestSession_StoreFailurePropagates(t *testing.T) {
	storeErr := errors.New("redis down")
	auth := &stubAuthenticator{err: storeErr}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	_, called, err := runSession(t, auth, req)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if called {
		t.Fatal("next should not run")
	}
}
