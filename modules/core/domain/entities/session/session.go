package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is an opaque end-user credential carried in a cookie. Admin bearer
// tokens are a separate mechanism and never touch this table.
type Session struct {
	Token     uuid.UUID
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type Repository interface {
	Create(ctx context.Context, data *Session) error
	GetByToken(ctx context.Context, token uuid.UUID) (*Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
