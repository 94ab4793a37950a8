package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mozartiade/archive/modules/core/domain/entities/session"
	"github.com/mozartiade/archive/modules/core/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
)

const (
	sessionInsertQuery = `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`

	sessionFindQuery = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1`

	sessionDeleteQuery        = `DELETE FROM sessions WHERE token = $1`
	sessionDeleteByUserQuery  = `DELETE FROM sessions WHERE user_id = $1`
	sessionDeleteExpiredQuery = `DELETE FROM sessions WHERE expires_at <= $1`
)

type PgSessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &PgSessionRepository{}
}

func (g *PgSessionRepository) Create(ctx context.Context, data *session.Session) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sessionInsertQuery, data.Token, data.UserID, data.ExpiresAt); err != nil {
		return errors.Wrap(err, "creating session")
	}
	return nil
}

func (g *PgSessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*session.Session, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.Session
	err = tx.QueryRow(ctx, sessionFindQuery, token).Scan(&m.Token, &m.UserID, &m.ExpiresAt, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying session")
	}
	return toDomainSession(&m), nil
}

func (g *PgSessionRepository) Delete(ctx context.Context, token uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sessionDeleteQuery, token); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (g *PgSessionRepository) DeleteByUser(ctx context.Context, userID uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sessionDeleteByUserQuery, userID); err != nil {
		return errors.Wrap(err, "deleting user sessions")
	}
	return nil
}

func (g *PgSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx, sessionDeleteExpiredQuery, now)
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	return tag.RowsAffected(), nil
}
