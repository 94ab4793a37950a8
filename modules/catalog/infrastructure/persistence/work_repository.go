package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/repo"
)

const (
	workFindQuery = `
		SELECT
			w.id,
			w.kochel,
			w.title,
			w.category,
			w.year,
			w.month,
			w.day,
			w.sort_order,
			w.description,
			w.created_at,
			w.updated_at
		FROM works w`

	workCountQuery = `SELECT COUNT(w.id) FROM works w`

	workInsertQuery = `
		INSERT INTO works (id, kochel, title, category, year, month, day, sort_order, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	workUpdateQuery = `
		UPDATE works
		SET kochel = $1, title = $2, category = $3, year = $4, month = $5, day = $6,
		    description = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING sort_order, updated_at`

	workDeleteQuery = `DELETE FROM works WHERE id = $1`

	// Year bucket: year-only works, ordered for the reorder algorithm.
	workYearBucketQuery = workFindQuery + `
		WHERE w.year = $1 AND w.month IS NULL AND w.day IS NULL
		ORDER BY w.sort_order ASC, w.created_at ASC`

	workUpdateOrderQuery = `UPDATE works SET sort_order = $1 WHERE id = $2`
)

type PgWorkRepository struct{}

func NewWorkRepository() work.Repository {
	return &PgWorkRepository{}
}

func (g *PgWorkRepository) queryWorks(ctx context.Context, query string, args ...interface{}) ([]*work.Work, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying works")
	}
	defer rows.Close()

	var works []*work.Work
	for rows.Next() {
		var m models.Work
		if err := rows.Scan(
			&m.ID,
			&m.Kochel,
			&m.Title,
			&m.Category,
			&m.Year,
			&m.Month,
			&m.Day,
			&m.SortOrder,
			&m.Description,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning work")
		}
		works = append(works, toDomainWork(&m))
	}
	return works, rows.Err()
}

func buildWorkFilters(params *work.FindParams) (string, []interface{}) {
	var where []string
	var args []interface{}
	if params == nil {
		return "", args
	}
	if params.Year != nil {
		where = append(where, fmt.Sprintf("w.year = $%d", len(args)+1))
		args = append(args, *params.Year)
	}
	if params.Category != "" {
		where = append(where, fmt.Sprintf("w.category = $%d", len(args)+1))
		args = append(args, params.Category)
	}
	if params.Search != "" {
		idx := len(args) + 1
		where = append(where, fmt.Sprintf("(w.title ILIKE $%d OR w.kochel ILIKE $%d)", idx, idx))
		args = append(args, "%"+params.Search+"%")
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (g *PgWorkRepository) GetByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	works, err := g.queryWorks(ctx, workFindQuery+" WHERE w.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(works) == 0 {
		return nil, work.ErrNotFound
	}
	return works[0], nil
}

func (g *PgWorkRepository) GetPaginated(ctx context.Context, params *work.FindParams) ([]*work.Work, error) {
	where, args := buildWorkFilters(params)
	query := workFindQuery + where + " ORDER BY w.year ASC, w.sort_order ASC, w.created_at ASC"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return g.queryWorks(ctx, query, args...)
}

func (g *PgWorkRepository) Count(ctx context.Context, params *work.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildWorkFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, workCountQuery+where, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting works")
	}
	return count, nil
}

func (g *PgWorkRepository) Create(ctx context.Context, data *work.Work) (*work.Work, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	created := *data
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if err := tx.QueryRow(
		ctx,
		workInsertQuery,
		created.ID,
		created.Kochel,
		created.Title,
		created.Category,
		created.Year,
		created.Month,
		created.Day,
		created.SortOrder,
		created.Description,
	).Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "creating work")
	}
	return &created, nil
}

func (g *PgWorkRepository) Update(ctx context.Context, data *work.Work) (*work.Work, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	updated := *data
	err = tx.QueryRow(
		ctx,
		workUpdateQuery,
		data.Kochel,
		data.Title,
		data.Category,
		data.Year,
		data.Month,
		data.Day,
		data.Description,
		data.ID,
	).Scan(&updated.SortOrder, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, work.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating work")
	}
	return &updated, nil
}

func (g *PgWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, workDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting work")
	}
	if tag.RowsAffected() == 0 {
		return work.ErrNotFound
	}
	return nil
}

func (g *PgWorkRepository) ListYearBucket(ctx context.Context, year int) ([]*work.Work, error) {
	return g.queryWorks(ctx, workYearBucketQuery, year)
}

func (g *PgWorkRepository) UpdateOrders(ctx context.Context, updates []ordering.Update) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if _, err := tx.Exec(ctx, workUpdateOrderQuery, u.Order, u.ID); err != nil {
			return errors.Wrap(err, "updating work order")
		}
	}
	return nil
}
