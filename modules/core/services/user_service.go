package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/modules/core/domain/entities/session"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/serrors"
)

// UserService covers end-user accounts: registration, session login and the
// profile operations. Sessions are opaque uuid tokens stored server side, so
// logout and account deletion revoke access immediately.
type UserService struct {
	users           user.Repository
	sessions        session.Repository
	publisher       eventbus.EventBus
	sessionDuration time.Duration
}

func NewUserService(
	users user.Repository,
	sessions session.Repository,
	publisher eventbus.EventBus,
	sessionDuration time.Duration,
) *UserService {
	return &UserService{
		users:           users,
		sessions:        sessions,
		publisher:       publisher,
		sessionDuration: sessionDuration,
	}
}

func validateUserAccount(email, name string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return serrors.Validation("a valid email is required")
	}
	if strings.TrimSpace(name) == "" {
		return serrors.Validation("name is required")
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, email, name, password string) (*user.User, error) {
	if err := validateUserAccount(email, name); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, serrors.Validation("password must be at least 8 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, serrors.Conflict("an account with this email already exists")
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	var created *user.User
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.users.Create(txCtx, &user.User{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(user.RegisteredEvent{Result: created})
	return created, nil
}

// Login verifies the password and opens a fresh session.
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, *session.Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil, nil, serrors.Authentication("invalid email or password")
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, serrors.Authentication("invalid email or password")
	}

	now := time.Now()
	sess := &session.Session{
		Token:     uuid.New(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.sessions.Create(txCtx, sess); err != nil {
			return err
		}
		return s.users.UpdateLastLogin(txCtx, u.ID)
	})
	if err != nil {
		return nil, nil, err
	}
	return u, sess, nil
}

func (s *UserService) Logout(ctx context.Context, token uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.sessions.Delete(txCtx, token)
	})
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	return err
}

// VerifyUserSession satisfies middleware.UserVerifier.
func (s *UserService) VerifyUserSession(ctx context.Context, token string) (*user.User, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, errors.Wrap(err, "parsing session token")
	}
	sess, err := s.sessions.GetByToken(ctx, parsed)
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	if sess.Expired(time.Now()) {
		return nil, errors.New("session expired")
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "loading session user")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, name string) (*user.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, serrors.Validation("name is required")
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, serrors.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	u.Name = name

	var updated *user.User
	err = composables.InTx(ctx, func(txCtx context.Context) error {
		updated, err = s.users.Update(txCtx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(user.UpdatedEvent{Result: updated})
	return updated, nil
}

// ChangePassword re-checks the current password and revokes every other
// session the account holds.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if len(next) < 8 {
		return serrors.Validation("password must be at least 8 characters")
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return serrors.NotFound("user not found")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return serrors.Authentication("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	u.PasswordHash = string(hash)

	return composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.users.Update(txCtx, u); err != nil {
			return err
		}
		return s.sessions.DeleteByUser(txCtx, id)
	})
}

// CleanupSessions drops expired sessions. Called periodically from the
// server process.
func (s *UserService) CleanupSessions(ctx context.Context) (int64, error) {
	var removed int64
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.sessions.DeleteExpired(txCtx, time.Now())
		return err
	})
	return removed, err
}
