package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/movement"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/serrors"
)

type MovementService struct {
	repo     movement.Repository
	workRepo work.Repository
}

func NewMovementService(repo movement.Repository, workRepo work.Repository) *MovementService {
	return &MovementService{repo: repo, workRepo: workRepo}
}

func (s *MovementService) ListByWork(ctx context.Context, workID uuid.UUID) ([]*movement.Movement, error) {
	return s.repo.ListByWork(ctx, workID)
}

func (s *MovementService) Create(ctx context.Context, data *movement.Movement) (*movement.Movement, error) {
	if strings.TrimSpace(data.Title) == "" {
		return nil, serrors.Validation("title is required")
	}
	if data.Position < 1 {
		return nil, serrors.Validation("position must be positive")
	}
	if _, err := s.workRepo.GetByID(ctx, data.WorkID); err != nil {
		if errors.Is(err, work.ErrNotFound) {
			return nil, serrors.NotFound("work not found")
		}
		return nil, err
	}

	var created *movement.Movement
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, data)
		return err
	})
	return created, err
}

func (s *MovementService) Update(ctx context.Context, data *movement.Movement) (*movement.Movement, error) {
	if strings.TrimSpace(data.Title) == "" {
		return nil, serrors.Validation("title is required")
	}

	var updated *movement.Movement
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.Update(txCtx, data)
		return err
	})
	if errors.Is(err, movement.ErrNotFound) {
		return nil, serrors.NotFound("movement not found")
	}
	return updated, err
}

func (s *MovementService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if errors.Is(err, movement.ErrNotFound) {
		return serrors.NotFound("movement not found")
	}
	return err
}
