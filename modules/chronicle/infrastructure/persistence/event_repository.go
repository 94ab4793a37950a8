package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/repo"
)

const (
	eventFindQuery = `
		SELECT
			e.id,
			e.year,
			e.month,
			e.day,
			e.title,
			e.body,
			e.category,
			e.sort_order,
			e.created_at,
			e.updated_at
		FROM chronicle_events e`

	eventCountQuery = `SELECT COUNT(e.id) FROM chronicle_events e`

	eventInsertQuery = `
		INSERT INTO chronicle_events (id, year, month, day, title, body, category, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	eventUpdateQuery = `
		UPDATE chronicle_events
		SET year = $1, month = $2, day = $3, title = $4, body = $5, category = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING sort_order, updated_at`

	eventDeleteQuery = `DELETE FROM chronicle_events WHERE id = $1`

	eventYearBucketQuery = eventFindQuery + `
		WHERE e.year = $1 AND e.month IS NULL AND e.day IS NULL
		ORDER BY e.sort_order ASC, e.created_at ASC`

	eventUpdateOrderQuery = `UPDATE chronicle_events SET sort_order = $1 WHERE id = $2`
)

type PgEventRepository struct{}

func NewEventRepository() event.Repository {
	return &PgEventRepository{}
}

func (g *PgEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*event.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying chronicle entries")
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(
			&e.ID,
			&e.Year,
			&e.Month,
			&e.Day,
			&e.Title,
			&e.Body,
			&e.Category,
			&e.SortOrder,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning chronicle entry")
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func buildEventFilters(params *event.FindParams) (string, []interface{}) {
	var where []string
	var args []interface{}
	if params == nil {
		return "", args
	}
	if params.Year != nil {
		where = append(where, fmt.Sprintf("e.year = $%d", len(args)+1))
		args = append(args, *params.Year)
	}
	if params.Category != "" {
		where = append(where, fmt.Sprintf("e.category = $%d", len(args)+1))
		args = append(args, params.Category)
	}
	if params.Search != "" {
		idx := len(args) + 1
		where = append(where, fmt.Sprintf("(e.title ILIKE $%d OR e.body ILIKE $%d)", idx, idx))
		args = append(args, "%"+params.Search+"%")
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func (g *PgEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	events, err := g.queryEvents(ctx, eventFindQuery+" WHERE e.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, event.ErrNotFound
	}
	return events[0], nil
}

func (g *PgEventRepository) GetPaginated(ctx context.Context, params *event.FindParams) ([]*event.Event, error) {
	where, args := buildEventFilters(params)
	query := eventFindQuery + where + " ORDER BY e.year ASC, e.sort_order ASC, e.created_at ASC"
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	return g.queryEvents(ctx, query, args...)
}

func (g *PgEventRepository) Count(ctx context.Context, params *event.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildEventFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, eventCountQuery+where, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting chronicle entries")
	}
	return count, nil
}

func (g *PgEventRepository) Create(ctx context.Context, data *event.Event) (*event.Event, error) {
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
		eventInsertQuery,
		created.ID,
		created.Year,
		created.Month,
		created.Day,
		created.Title,
		created.Body,
		created.Category,
		created.SortOrder,
	).Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "creating chronicle entry")
	}
	return &created, nil
}

func (g *PgEventRepository) Update(ctx context.Context, data *event.Event) (*event.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	updated := *data
	err = tx.QueryRow(
		ctx,
		eventUpdateQuery,
		data.Year,
		data.Month,
		data.Day,
		data.Title,
		data.Body,
		data.Category,
		data.ID,
	).Scan(&updated.SortOrder, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, event.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating chronicle entry")
	}
	return &updated, nil
}

func (g *PgEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, eventDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting chronicle entry")
	}
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (g *PgEventRepository) ListYearBucket(ctx context.Context, year int) ([]*event.Event, error) {
	return g.queryEvents(ctx, eventYearBucketQuery, year)
}

func (g *PgEventRepository) UpdateOrders(ctx context.Context, updates []ordering.Update) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if _, err := tx.Exec(ctx, eventUpdateOrderQuery, u.Order, u.ID); err != nil {
			return errors.Wrap(err, "updating chronicle entry order")
		}
	}
	return nil
}
