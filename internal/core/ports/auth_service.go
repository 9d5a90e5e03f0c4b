package ports

import (
	"context"
	"time"

	"github.com/quillhub/blog/internal/core/domain"
)

// Session is the result of a successful login.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Identity is what a valid token resolves to.
type Identity struct {
	UserID    string
	SessionID string
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*Identity, error)
}
