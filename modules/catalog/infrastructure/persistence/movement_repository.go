package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/movement"
	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence/models"
	"github.com/mozartiade/archive/pkg/composables"
)

const (
	movementFindQuery = `
		SELECT m.id, m.work_id, m.position, m.title, m.tempo
		FROM movements m`

	movementInsertQuery = `
		INSERT INTO movements (id, work_id, position, title, tempo)
		VALUES ($1, $2, $3, $4, $5)`

	movementUpdateQuery = `
		UPDATE movements
		SET position = $1, title = $2, tempo = $3
		WHERE id = $4`

	movementDeleteQuery = `DELETE FROM movements WHERE id = $1`
)

type PgMovementRepository struct{}

func NewMovementRepository() movement.Repository {
	return &PgMovementRepository{}
}

func (g *PgMovementRepository) queryMovements(ctx context.Context, query string, args ...interface{}) ([]*movement.Movement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying movements")
	}
	defer rows.Close()

	var movements []*movement.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.ID, &m.WorkID, &m.Position, &m.Title, &m.Tempo); err != nil {
			return nil, errors.Wrap(err, "scanning movement")
		}
		movements = append(movements, toDomainMovement(&m))
	}
	return movements, rows.Err()
}

func (g *PgMovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*movement.Movement, error) {
	movements, err := g.queryMovements(ctx, movementFindQuery+" WHERE m.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, movement.ErrNotFound
	}
	return movements[0], nil
}

func (g *PgMovementRepository) ListByWork(ctx context.Context, workID uuid.UUID) ([]*movement.Movement, error) {
	return g.queryMovements(ctx, movementFindQuery+" WHERE m.work_id = $1 ORDER BY m.position ASC", workID)
}

func (g *PgMovementRepository) Create(ctx context.Context, data *movement.Movement) (*movement.Movement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	created := *data
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	if _, err := tx.Exec(
		ctx,
		movementInsertQuery,
		created.ID,
		created.WorkID,
		created.Position,
		created.Title,
		created.Tempo,
	); err != nil {
		return nil, errors.Wrap(err, "creating movement")
	}
	return &created, nil
}

func (g *PgMovementRepository) Update(ctx context.Context, data *movement.Movement) (*movement.Movement, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tag, err := tx.Exec(ctx, movementUpdateQuery, data.Position, data.Title, data.Tempo, data.ID)
	if err != nil {
		return nil, errors.Wrap(err, "updating movement")
	}
	if tag.RowsAffected() == 0 {
		return nil, movement.ErrNotFound
	}
	return data, nil
}

func (g *PgMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, movementDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting movement")
	}
	if tag.RowsAffected() == 0 {
		return movement.ErrNotFound
	}
	return nil
}
