package services

import (
	"context"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/serrors"
)

const chronicleBucketKind = "chronicle"

type EventService struct {
	repo      event.Repository
	publisher eventbus.EventBus
	guard     *ordering.Guard
	policy    ordering.BoundsPolicy
}

func NewEventService(repo event.Repository, publisher eventbus.EventBus, guard *ordering.Guard, policy ordering.BoundsPolicy) *EventService {
	return &EventService{
		repo:      repo,
		publisher: publisher,
		guard:     guard,
		policy:    policy,
	}
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, event.ErrNotFound) {
		return nil, serrors.NotFound("chronicle entry not found")
	}
	return e, err
}

func (s *EventService) GetPaginatedWithTotal(ctx context.Context, params *event.FindParams) ([]*event.Event, int64, error) {
	var events []*event.Event
	var total int64
	err := composables.InReadTx(ctx, func(txCtx context.Context) error {
		var err error
		if events, err = s.repo.GetPaginated(txCtx, params); err != nil {
			return err
		}
		total, err = s.repo.Count(txCtx, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func validateEvent(data *event.Event) error {
	if strings.TrimSpace(data.Title) == "" {
		return serrors.Validation("title is required")
	}
	if data.Year == 0 {
		return serrors.Validation("year is required")
	}
	if data.Month == nil && data.Day != nil {
		return serrors.Validation("day requires a month")
	}
	return nil
}

// Create appends a year-only entry to the end of its year bucket so the
// bucket's orders stay the contiguous sequence 1..N.
func (s *EventService) Create(ctx context.Context, data *event.Event) (*event.Event, error) {
	if err := validateEvent(data); err != nil {
		return nil, err
	}

	draft := *data
	if draft.Reorderable() {
		unlock := s.guard.Lock(chronicleBucketKind, draft.Year)
		defer unlock()
	}

	var created *event.Event
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

	s.publisher.Publish(event.CreatedEvent{Result: created})
	return created, nil
}

// Update keeps the bucket invariant when the edit moves the entry between
// buckets: refining the date or changing the year closes the gap it left
// and appends it to the bucket it entered.
func (s *EventService) Update(ctx context.Context, data *event.Event) (*event.Event, error) {
	if err := validateEvent(data); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, data.ID)
	if errors.Is(err, event.ErrNotFound) {
		return nil, serrors.NotFound("chronicle entry not found")
	}
	if err != nil {
		return nil, err
	}

	next := *data
	leavesOld := existing.Reorderable() && (next.Month != nil || next.Day != nil || next.Year != existing.Year)
	entersNew := next.Reorderable() && (!existing.Reorderable() || next.Year != existing.Year)
	for _, year := range bucketYears(existing.Year, next.Year, leavesOld, entersNew) {
		unlock := s.guard.Lock(chronicleBucketKind, year)
		defer unlock()
	}

	run := composables.InTx
	if leavesOld || entersNew {
		run = composables.InBatchTx
	}

	var updated *event.Event
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
	if errors.Is(err, event.ErrNotFound) {
		return nil, serrors.NotFound("chronicle entry not found")
	}
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(event.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, event.ErrNotFound) {
		return serrors.NotFound("chronicle entry not found")
	}
	if err != nil {
		return err
	}

	if e.Reorderable() {
		unlock := s.guard.Lock(chronicleBucketKind, e.Year)
		defer unlock()
	}

	if err := composables.InBatchTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		if e.Reorderable() {
			return s.renumberBucket(txCtx, e.Year)
		}
		return nil
	}); err != nil {
		return err
	}
	s.publisher.Publish(event.DeletedEvent{Result: e})
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

func (s *EventService) renumberBucket(ctx context.Context, year int) error {
	bucket, err := s.repo.ListYearBucket(ctx, year)
	if err != nil {
		return err
	}
	if len(bucket) == 0 {
		return nil
	}
	return s.repo.UpdateOrders(ctx, ordering.Renumber(toEntries(bucket)))
}

func (s *EventService) appendToBucket(ctx context.Context, id uuid.UUID, year int) error {
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

func toEntries(events []*event.Event) []ordering.Entry {
	entries := make([]ordering.Entry, len(events))
	for i, e := range events {
		entries[i] = ordering.Entry{ID: e.ID, Order: e.SortOrder, CreatedAt: e.CreatedAt}
	}
	return entries
}

// Reorder mirrors the works flow: one year bucket, one batch transaction,
// bucket lock held for the whole read-plan-write sequence.
func (s *EventService) Reorder(ctx context.Context, entryID uuid.UUID, year int, newIndex int) error {
	unlock := s.guard.Lock(chronicleBucketKind, year)
	defer unlock()

	e, err := s.repo.GetByID(ctx, entryID)
	if errors.Is(err, event.ErrNotFound) {
		return serrors.NotFound("chronicle entry not found")
	}
	if err != nil {
		return serrors.Persistence("loading chronicle entry", err)
	}
	if e.Year != year {
		return serrors.BucketMismatch("chronicle entry does not belong to the specified year")
	}
	if !e.Reorderable() {
		return serrors.NotReorderable("only entries with year only may be reordered")
	}

	siblings, err := s.repo.ListYearBucket(ctx, year)
	if err != nil {
		return serrors.Persistence("loading year bucket", err)
	}

	updates, err := ordering.Plan(toEntries(siblings), entryID, newIndex, s.policy)
	if errors.Is(err, ordering.ErrIndexOutOfRange) {
		return serrors.InvalidIndex("new order is out of range")
	}
	if errors.Is(err, ordering.ErrNotInBucket) {
		return serrors.NotReorderable("only entries with year only may be reordered")
	}
	if err != nil {
		return err
	}

	if err := composables.InBatchTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateOrders(txCtx, updates)
	}); err != nil {
		return serrors.Persistence("persisting new order", err)
	}

	s.publisher.Publish(event.ReorderedEvent{Year: year})
	return nil
}
