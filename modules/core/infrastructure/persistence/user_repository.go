package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/modules/core/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
)

const (
	userFindQuery = `
		SELECT
			u.id,
			u.email,
			u.name,
			u.password_hash,
			u.created_at,
			u.updated_at,
			u.last_login
		FROM users u`

	userInsertQuery = `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	userUpdateQuery = `
		UPDATE users
		SET email = $1, name = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	userUpdateLastLoginQuery = `UPDATE users SET last_login = NOW() WHERE id = $1`

	userDeleteQuery = `DELETE FROM users WHERE id = $1`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (g *PgUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID,
			&m.Email,
			&m.Name,
			&m.PasswordHash,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.LastLogin,
		); err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		users = append(users, toDomainUser(&m))
	}
	return users, rows.Err()
}

func (g *PgUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" WHERE u.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound
	}
	return users[0], nil
}

func (g *PgUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	users, err := g.queryUsers(ctx, userFindQuery+" WHERE lower(u.email) = lower($1)", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.ErrNotFound
	}
	return users[0], nil
}

func (g *PgUserRepository) Create(ctx context.Context, data *user.User) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	created := *data
	if err := tx.QueryRow(
		ctx,
		userInsertQuery,
		data.Email,
		data.Name,
		data.PasswordHash,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "creating user")
	}
	return &created, nil
}

func (g *PgUserRepository) Update(ctx context.Context, data *user.User) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	updated := *data
	err = tx.QueryRow(
		ctx,
		userUpdateQuery,
		data.Email,
		data.Name,
		data.PasswordHash,
		data.ID,
	).Scan(&updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating user")
	}
	return &updated, nil
}

func (g *PgUserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, userUpdateLastLoginQuery, id); err != nil {
		return errors.Wrap(err, "updating last login")
	}
	return nil
}

func (g *PgUserRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, userDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
