package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/like"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/serrors"
)

type LikeService struct {
	repo     like.Repository
	workRepo work.Repository
}

func NewLikeService(repo like.Repository, workRepo work.Repository) *LikeService {
	return &LikeService{repo: repo, workRepo: workRepo}
}

func (s *LikeService) requireWork(ctx context.Context, workID uuid.UUID) error {
	if _, err := s.workRepo.GetByID(ctx, workID); err != nil {
		if errors.Is(err, work.ErrNotFound) {
			return serrors.NotFound("work not found")
		}
		return err
	}
	return nil
}

// Like is idempotent: liking an already-liked work succeeds without change.
func (s *LikeService) Like(ctx context.Context, userID uint, workID uuid.UUID) error {
	if err := s.requireWork(ctx, workID); err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Add(txCtx, userID, workID)
	})
}

func (s *LikeService) Unlike(ctx context.Context, userID uint, workID uuid.UUID) error {
	if err := s.requireWork(ctx, workID); err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Remove(txCtx, userID, workID)
	})
}

func (s *LikeService) CountByWork(ctx context.Context, workID uuid.UUID) (int64, error) {
	return s.repo.CountByWork(ctx, workID)
}

// LikedWorks resolves the user's liked works, newest like first.
func (s *LikeService) LikedWorks(ctx context.Context, userID uint) ([]*work.Work, error) {
	var works []*work.Work
	err := composables.InReadTx(ctx, func(txCtx context.Context) error {
		ids, err := s.repo.ListWorkIDsByUser(txCtx, userID)
		if err != nil {
			return err
		}
		works = make([]*work.Work, 0, len(ids))
		for _, id := range ids {
			w, err := s.workRepo.GetByID(txCtx, id)
			if errors.Is(err, work.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			works = append(works, w)
		}
		return nil
	})
	return works, err
}
