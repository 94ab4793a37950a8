package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/repo"
)

const (
	adminFindQuery = `
		SELECT
			a.id,
			a.email,
			a.name,
			a.password_hash,
			a.role,
			a.created_at,
			a.updated_at
		FROM admins a`

	adminCountQuery = `SELECT COUNT(a.id) FROM admins a`

	adminInsertQuery = `
		INSERT INTO admins (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	adminUpdateQuery = `
		UPDATE admins
		SET email = $1, name = $2, password_hash = $3, role = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	adminDeleteQuery = `DELETE FROM admins WHERE id = $1`
)

type PgAdminRepository struct{}

func NewAdminRepository() admin.Repository {
	return &PgAdminRepository{}
}

func (g *PgAdminRepository) queryAdmins(ctx context.Context, query string, args ...interface{}) ([]*admin.Admin, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying admins")
	}
	defer rows.Close()

	var admins []*admin.Admin
	for rows.Next() {
		var m models.Admin
		if err := rows.Scan(
			&m.ID,
			&m.Email,
			&m.Name,
			&m.PasswordHash,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning admin")
		}
		a, err := toDomainAdmin(&m)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func buildAdminFilters(params *admin.FindParams) (string, []interface{}) {
	var where []string
	var args []interface{}
	if params != nil && params.Search != "" {
		where = append(where, fmt.Sprintf("(a.email ILIKE $%d OR a.name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+params.Search+"%")
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (g *PgAdminRepository) GetByID(ctx context.Context, id uint) (*admin.Admin, error) {
	admins, err := g.queryAdmins(ctx, adminFindQuery+" WHERE a.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, admin.ErrNotFound
	}
	return admins[0], nil
}

func (g *PgAdminRepository) GetByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	admins, err := g.queryAdmins(ctx, adminFindQuery+" WHERE lower(a.email) = lower($1)", email)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, admin.ErrNotFound
	}
	return admins[0], nil
}

func (g *PgAdminRepository) GetPaginated(ctx context.Context, params *admin.FindParams) ([]*admin.Admin, error) {
	where, args := buildAdminFilters(params)
	query := adminFindQuery + where + " ORDER BY a.id"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return g.queryAdmins(ctx, query, args...)
}

func (g *PgAdminRepository) Count(ctx context.Context, params *admin.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAdminFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, adminCountQuery+where, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting admins")
	}
	return count, nil
}

func (g *PgAdminRepository) Create(ctx context.Context, data *admin.Admin) (*admin.Admin, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	created := *data
	if err := tx.QueryRow(
		ctx,
		adminInsertQuery,
		data.Email,
		data.Name,
		data.PasswordHash,
		string(data.Role),
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "creating admin")
	}
	return &created, nil
}

func (g *PgAdminRepository) Update(ctx context.Context, data *admin.Admin) (*admin.Admin, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	updated := *data
	err = tx.QueryRow(
		ctx,
		adminUpdateQuery,
		data.Email,
		data.Name,
		data.PasswordHash,
		string(data.Role),
		data.ID,
	).Scan(&updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, admin.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating admin")
	}
	return &updated, nil
}

func (g *PgAdminRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, adminDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting admin")
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrNotFound
	}
	return nil
}
