package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/relatedlink"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/serrors"
)

type RelatedLinkService struct {
	repo     relatedlink.Repository
	workRepo work.Repository
}

func NewRelatedLinkService(repo relatedlink.Repository, workRepo work.Repository) *RelatedLinkService {
	return &RelatedLinkService{repo: repo, workRepo: workRepo}
}

func validateRelatedLink(data *relatedlink.RelatedLink) error {
	if strings.TrimSpace(data.Title) == "" {
		return serrors.Validation("title is required")
	}
	parsed, err := url.Parse(data.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return serrors.Validation("url must be absolute")
	}
	if !data.Kind.Valid() {
		return serrors.Validation("unknown link kind")
	}
	return nil
}

func (s *RelatedLinkService) ListByWork(ctx context.Context, workID uuid.UUID) ([]*relatedlink.RelatedLink, error) {
	return s.repo.ListByWork(ctx, workID)
}

func (s *RelatedLinkService) Create(ctx context.Context, data *relatedlink.RelatedLink) (*relatedlink.RelatedLink, error) {
	if err := validateRelatedLink(data); err != nil {
		return nil, err
	}
	if _, err := s.workRepo.GetByID(ctx, data.WorkID); err != nil {
		if errors.Is(err, work.ErrNotFound) {
			return nil, serrors.NotFound("work not found")
		}
		return nil, err
	}

	var created *relatedlink.RelatedLink
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, data)
		return err
	})
	return created, err
}

func (s *RelatedLinkService) Update(ctx context.Context, data *relatedlink.RelatedLink) (*relatedlink.RelatedLink, error) {
	if err := validateRelatedLink(data); err != nil {
		return nil, err
	}

	var updated *relatedlink.RelatedLink
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.Update(txCtx, data)
		return err
	})
	if errors.Is(err, relatedlink.ErrNotFound) {
		return nil, serrors.NotFound("related link not found")
	}
	return updated, err
}

func (s *RelatedLinkService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if errors.Is(err, relatedlink.ErrNotFound) {
		return serrors.NotFound("related link not found")
	}
	return err
}
