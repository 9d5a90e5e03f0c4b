package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillhub/blog/internal/api/middleware"
	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (*ports.Session, error)
	revoked  []string
	logoutFn func(ctx context.Context, sessionID string) error
}

func (s *stubAuthService) Register(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	s.revoked = append(s.revoked, sessionID)
	if s.logoutFn != nil {
		return s.logoutFn(ctx, sessionID)
	}
	return nil
}

func (s *stubAuthService) Authenticate(context.Context, string) (*ports.Identity, error) {
	return nil, domain.ErrUnauthenticated
}

func okLogin(t *testing.T) func(context.Context, string, string) (*ports.Session, error) {
	return func(_ context.Context, username, password string) (*ports.Session, error) {
		if username != "alice" || password != "secret" {
			t.Fatalf("unexpected credentials %q/%q", username, password)
		}
		return &ports.Session{
			ID:        "sid-1",
			Token:     "signed.jwt.token",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      &domain.User{ID: "u1", Username: "alice"},
		}, nil
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_JSON(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{loginFn: okLogin(t)}, true)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Token != "signed.jwt.token" || resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not expose the password hash")
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected a session cookie")
	}
	if cookie.Value != "signed.jwt.token" || !cookie.HttpOnly || !cookie.Secure {
		t.Errorf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_Login_FormRedirectsBrowsers(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{loginFn: okLogin(t)}, false)

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAccept, "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
	if sessionCookie(rec) == nil {
		t.Error("expected a session cookie")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sessionCookie(rec) != nil {
		t.Error("failed login must not set a cookie")
	}
}

func TestAuthHandler_Login_BadPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{}, false)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{}
	handler := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeySessionID, "sid-1")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "sid-1" {
		t.Errorf("expected sid-1 to be revoked, got %v", stub.revoked)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("expected the session cookie to be cleared, got %+v", cookie)
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{}
	handler := NewAuthHandler(stub, false)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMETextHTML)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "" {
		t.Errorf("expected an empty session id to be passed through, got %v", stub.revoked)
	}
}
