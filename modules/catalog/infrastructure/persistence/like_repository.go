package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/like"
	"github.com/mozartiade/archive/pkg/composables"
)

const (
	likeInsertQuery = `
		INSERT INTO work_likes (user_id, work_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, work_id) DO NOTHING`

	likeDeleteQuery = `DELETE FROM work_likes WHERE user_id = $1 AND work_id = $2`

	likeExistsQuery = `SELECT EXISTS (SELECT 1 FROM work_likes WHERE user_id = $1 AND work_id = $2)`

	likeCountQuery = `SELECT COUNT(*) FROM work_likes WHERE work_id = $1`

	likeListByUserQuery = `
		SELECT work_id FROM work_likes
		WHERE user_id = $1
		ORDER BY created_at DESC`
)

type PgLikeRepository struct{}

func NewLikeRepository() like.Repository {
	return &PgLikeRepository{}
}

func (g *PgLikeRepository) Add(ctx context.Context, userID uint, workID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, likeInsertQuery, userID, workID); err != nil {
		return errors.Wrap(err, "adding like")
	}
	return nil
}

func (g *PgLikeRepository) Remove(ctx context.Context, userID uint, workID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, likeDeleteQuery, userID, workID); err != nil {
		return errors.Wrap(err, "removing like")
	}
	return nil
}

func (g *PgLikeRepository) Exists(ctx context.Context, userID uint, workID uuid.UUID) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, likeExistsQuery, userID, workID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "checking like")
	}
	return exists, nil
}

func (g *PgLikeRepository) CountByWork(ctx context.Context, workID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, likeCountQuery, workID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting likes")
	}
	return count, nil
}

func (g *PgLikeRepository) ListWorkIDsByUser(ctx context.Context, userID uint) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, likeListByUserQuery, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing likes")
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning like")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
