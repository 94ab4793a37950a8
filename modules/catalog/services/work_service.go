package services

import (
	"context"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/serrors"
)

const workBucketKind = "works"

type WorkService struct {
	repo      work.Repository
	publisher eventbus.EventBus
	guard     *ordering.Guard
	policy    ordering.BoundsPolicy
}

func NewWorkService(repo work.Repository, publisher eventbus.EventBus, guard *ordering.Guard, policy ordering.BoundsPolicy) *WorkService {
	return &WorkService{
		repo:      repo,
		publisher: publisher,
		guard:     guard,
		policy:    policy,
	}
}

func (s *WorkService) GetByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	w, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, work.ErrNotFound) {
		return nil, serrors.NotFound("work not found")
	}
	return w, err
}

func (s *WorkService) GetPaginatedWithTotal(ctx context.Context, params *work.FindParams) ([]*work.Work, int64, error) {
	var works []*work.Work
	var total int64
	err := composables.InReadTx(ctx, func(txCtx context.Context) error {
		var err error
		if works, err = s.repo.GetPaginated(txCtx, params); err != nil {
			return err
		}
		total, err = s.repo.Count(txCtx, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func validateWork(data *work.Work) error {
	if strings.TrimSpace(data.Title) == "" {
		return serrors.Validation("title is required")
	}
	if strings.TrimSpace(data.Kochel) == "" {
		return serrors.Validation("catalogue number is required")
	}
	if data.Year == 0 {
		return serrors.Validation("year is required")
	}
	if data.Month == nil && data.Day != nil {
		return serrors.Validation("day requires a month")
	}
	return nil
}

// Create appends a year-only work to the end of its year bucket so the
// bucket's orders stay the contiguous sequence 1..N.
func (s *WorkService) Create(ctx context.Context, data *work.Work) (*work.Work, error) {
	if err := validateWork(data); err != nil {
		return nil, err
	}

	draft := *data
	if draft.Reorderable() {
		unlock := s.guard.Lock(workBucketKind, draft.Year)
		defer unlock()
	}

	var created *work.Work
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if draft.Reorderable() {
			bucket, err := s.repo.ListYearBucket(txCtx, draft.Year)
			if err != nil {
				return err
			}
			draft.SortOrder = len(bucket) + 1
		}
		var err error
		created, err = s.repo.Create(txCtx, &draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(work.CreatedEvent{Result: created})
	return created, nil
}

// Update keeps the bucket invariant when the edit moves the work between
// buckets: refining the date or changing the year closes the gap it left
// and appends it to the bucket it entered.
func (s *WorkService) Update(ctx context.Context, data *work.Work) (*work.Work, error) {
	if err := validateWork(data); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, data.ID)
	if errors.Is(err, work.ErrNotFound) {
		return nil, serrors.NotFound("work not found")
	}
	if err != nil {
		return nil, err
	}

	next := *data
	leavesOld := existing.Reorderable() && (next.Month != nil || next.Day != nil || next.Year != existing.Year)
	entersNew := next.Reorderable() && (!existing.Reorderable() || next.Year != existing.Year)
	for _, year := range bucketYears(existing.Year, next.Year, leavesOld, entersNew) {
		unlock := s.guard.Lock(workBucketKind, year)
		defer unlock()
	}

	run := composables.InTx
	if leavesOld || entersNew {
		run = composables.InBatchTx
	}

	var updated *work.Work
	err = run(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.Update(txCtx, &next)
		if err != nil {
			return err
		}
		if leavesOld {
			if err := s.renumberBucket(txCtx, existing.Year); err != nil {
				return err
			}
		}
		if entersNew {
			if err := s.appendToBucket(txCtx, updated.ID, updated.Year); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, work.ErrNotFound) {
		return nil, serrors.NotFound("work not found")
	}
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(work.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *WorkService) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, work.ErrNotFound) {
		return serrors.NotFound("work not found")
	}
	if err != nil {
		return err
	}

	if w.Reorderable() {
		unlock := s.guard.Lock(workBucketKind, w.Year)
		defer unlock()
	}

	if err := composables.InBatchTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		if w.Reorderable() {
			return s.renumberBucket(txCtx, w.Year)
		}
		return nil
	}); err != nil {
		return err
	}
	s.publisher.Publish(work.DeletedEvent{Result: w})
	return nil
}

// bucketYears returns the distinct bucket years touched by an update, in
// ascending order so concurrent updates always lock in the same sequence.
func bucketYears(oldYear, newYear int, leavesOld, entersNew bool) []int {
	var years []int
	if leavesOld {
		years = append(years, oldYear)
	}
	if entersNew && (!leavesOld || newYear != oldYear) {
		years = append(years, newYear)
	}
	sort.Ints(years)
	return years
}

func (s *WorkService) renumberBucket(ctx context.Context, year int) error {
	bucket, err := s.repo.ListYearBucket(ctx, year)
	if err != nil {
		return err
	}
	if len(bucket) == 0 {
		return nil
	}
	return s.repo.UpdateOrders(ctx, ordering.Renumber(toEntries(bucket)))
}

func (s *WorkService) appendToBucket(ctx context.Context, id uuid.UUID, year int) error {
	bucket, err := s.repo.ListYearBucket(ctx, year)
	if err != nil {
		return err
	}
	updates, err := ordering.Plan(toEntries(bucket), id, len(bucket)-1, ordering.Clamp)
	if err != nil {
		return err
	}
	return s.repo.UpdateOrders(ctx, updates)
}

func toEntries(works []*work.Work) []ordering.Entry {
	entries := make([]ordering.Entry, len(works))
	for i, w := range works {
		entries[i] = ordering.Entry{ID: w.ID, Order: w.SortOrder, CreatedAt: w.CreatedAt}
	}
	return entries
}

// Reorder moves one year-only work to newIndex within its year bucket and
// rewrites the bucket's sort orders as one batch transaction. The bucket
// lock is held across load, plan and persist so concurrent moves in the
// same year cannot lose updates.
func (s *WorkService) Reorder(ctx context.Context, workID uuid.UUID, year int, newIndex int) error {
	unlock := s.guard.Lock(workBucketKind, year)
	defer unlock()

	w, err := s.repo.GetByID(ctx, workID)
	if errors.Is(err, work.ErrNotFound) {
		return serrors.NotFound("work not found")
	}
	if err != nil {
		return serrors.Persistence("loading work", err)
	}
	if w.Year != year {
		return serrors.BucketMismatch("work does not belong to the specified year")
	}
	if !w.Reorderable() {
		return serrors.NotReorderable("only works with year only may be reordered")
	}

	siblings, err := s.repo.ListYearBucket(ctx, year)
	if err != nil {
		return serrors.Persistence("loading year bucket", err)
	}

	updates, err := ordering.Plan(toEntries(siblings), workID, newIndex, s.policy)
	if errors.Is(err, ordering.ErrIndexOutOfRange) {
		return serrors.InvalidIndex("new order is out of range")
	}
	if errors.Is(err, ordering.ErrNotInBucket) {
		return serrors.NotReorderable("only works with year only may be reordered")
	}
	if err != nil {
		return err
	}

	if err := composables.InBatchTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateOrders(txCtx, updates)
	}); err != nil {
		return serrors.Persistence("persisting new order", err)
	}

	s.publisher.Publish(work.ReorderedEvent{Year: year})
	return nil
}
