package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/infrastructure/db/memory"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewAuthService(store.Users(), store.Sessions(), testSecret, time.Hour, zerolog.Nop()), store
}

func mustRegister(t *testing.T, svc *AuthService, username, password string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), username, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	u := mustRegister(t, svc, "  alice ", "s3cret")
	if u.ID == "" {
		t.Error("expected an ID")
	}
	if u.Username != "alice" {
		t.Errorf("expected trimmed username, got %q", u.Username)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret" {
		t.Error("password must be stored hashed")
	}

	if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
	if _, err := svc.Register(ctx, "", "pw"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty username, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)
	mustRegister(t, svc, "alice", "s3cret")

	cases := []struct{ username, password string }{
		{"alice", "wrong"},
		{"nobody", "s3cret"},
		{"", ""},
	}
	for _, tc := range cases {
		_, err := svc.Login(context.Background(), tc.username, tc.password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("login %q/%q: expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	user := mustRegister(t, svc, "alice", "s3cret")

	sess, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.ID == "" {
		t.Fatalf("expected token and session id, got %+v", sess)
	}
	if sess.User.ID != user.ID {
		t.Errorf("expected session for %s, got %s", user.ID, sess.User.ID)
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Error("session must expire in the future")
	}

	id, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.UserID != user.ID || id.SessionID != sess.ID {
		t.Errorf("unexpected identity %+v", id)
	}

	if err := svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("revoked token must not authenticate, got %v", err)
	}
}

func TestLogout_EmptySessionIsNoop(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	svc, store := newAuthFixture(t)
	ctx := context.Background()
	user := mustRegister(t, svc, "alice", "s3cret")

	if err := store.Sessions().Create(ctx, "sid-1", user.ID, time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}

	expired, err := svc.generateToken(user.ID, "sid-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	otherKey := NewAuthService(store.Users(), store.Sessions(), "another-secret", time.Hour, zerolog.Nop())
	foreign, err := otherKey.generateToken(user.ID, "sid-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS384, &sessionClaims{
		SessionID:        "sid-1",
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	unknownSession, err := svc.generateToken(user.ID, "sid-missing", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	hijacked, err := svc.generateToken(otherUserID, "sid-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"garbage":          "not-a-jwt",
		"expired":          expired,
		"foreign secret":   foreign,
		"wrong algorithm":  wrongAlg,
		"unknown session":  unknownSession,
		"subject mismatch": hijacked,
	}
	for name, token := range cases {
		if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestLogin_TrimsUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)
	mustRegister(t, svc, "alice ", "s3cret")

	for _, name := range []string{"alice", "alice ", " alice"} {
		if _, err := svc.Login(context.Background(), name, "s3cret"); err != nil {
			t.Errorf("login as %q: %v", name, err)
		}
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), "alice", strings.Repeat("x", maxPasswordBytes+1))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "bob", strings.Repeat("x", maxPasswordBytes)); err != nil {
		t.Errorf("a %d-byte password must be accepted, got %v", maxPasswordBytes, err)
	}
}
