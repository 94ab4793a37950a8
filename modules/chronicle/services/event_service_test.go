package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	"github.com/mozartiade/archive/modules/chronicle/services"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/logging"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/serrors"
)

type fakeEventRepository struct {
	events []*event.Event
}

func (f *fakeEventRepository) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, event.ErrNotFound
}

func (f *fakeEventRepository) GetPaginated(_ context.Context, _ *event.FindParams) ([]*event.Event, error) {
	return f.events, nil
}

func (f *fakeEventRepository) Count(_ context.Context, _ *event.FindParams) (int64, error) {
	return int64(len(f.events)), nil
}

func (f *fakeEventRepository) Create(_ context.Context, data *event.Event) (*event.Event, error) {
	created := *data
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	f.events = append(f.events, &created)
	return &created, nil
}

func (f *fakeEventRepository) Update(_ context.Context, data *event.Event) (*event.Event, error) {
	for i, e := range f.events {
		if e.ID == data.ID {
			updated := *data
			updated.SortOrder = e.SortOrder
			f.events[i] = &updated
			return &updated, nil
		}
	}
	return nil, event.ErrNotFound
}

func (f *fakeEventRepository) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return event.ErrNotFound
}

func (f *fakeEventRepository) ListYearBucket(_ context.Context, year int) ([]*event.Event, error) {
	var bucket []*event.Event
	for _, e := range f.events {
		if e.Year == year && e.Reorderable() {
			bucket = append(bucket, e)
		}
	}
	return bucket, nil
}

func (f *fakeEventRepository) UpdateOrders(_ context.Context, updates []ordering.Update) error {
	for _, u := range updates {
		for _, e := range f.events {
			if e.ID == u.ID {
				e.SortOrder = u.Order
			}
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func yearOnlyEntry(title string, year, order int) *event.Event {
	return &event.Event{
		ID:        uuid.New(),
		Title:     title,
		Year:      year,
		SortOrder: order,
		CreatedAt: time.Now(),
	}
}

func newEventService(repo event.Repository, policy ordering.BoundsPolicy) *services.EventService {
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	return services.NewEventService(repo, bus, ordering.NewGuard(), policy)
}

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	se := serrors.AsServiceError(err)
	require.Equal(t, status, se.Status)
	require.Equal(t, code, se.Code)
}

func TestEventServiceReorderUnknownEntry(t *testing.T) {
	repo := &fakeEventRepository{events: []*event.Event{yearOnlyEntry("A", 1784, 1)}}
	svc := newEventService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), uuid.New(), 1784, 0)
	requireStatus(t, err, http.StatusNotFound, "NOT_FOUND")
}

func TestEventServiceReorderYearMismatch(t *testing.T) {
	e := yearOnlyEntry("A", 1784, 1)
	repo := &fakeEventRepository{events: []*event.Event{e}}
	svc := newEventService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), e.ID, 1762, 0)
	requireStatus(t, err, http.StatusBadRequest, "BUCKET_MISMATCH")
}

func TestEventServiceReorderDatedEntryRejected(t *testing.T) {
	dated := yearOnlyEntry("Marriage", 1782, 0)
	dated.Month = intPtr(8)
	dated.Day = intPtr(4)
	repo := &fakeEventRepository{events: []*event.Event{dated}}
	svc := newEventService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), dated.ID, 1782, 0)
	requireStatus(t, err, http.StatusBadRequest, "NOT_REORDERABLE")
}

func TestEventServiceReorderNegativeIndexRejected(t *testing.T) {
	e := yearOnlyEntry("A", 1784, 1)
	repo := &fakeEventRepository{events: []*event.Event{e, yearOnlyEntry("B", 1784, 2)}}
	svc := newEventService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), e.ID, 1784, -3)
	requireStatus(t, err, http.StatusBadRequest, "INVALID_INDEX")
}

func TestEventServiceCreateValidation(t *testing.T) {
	svc := newEventService(&fakeEventRepository{}, ordering.Clamp)

	cases := []struct {
		name string
		data *event.Event
	}{
		{"missing title", &event.Event{Year: 1784}},
		{"missing year", &event.Event{Title: "Joins the Freemasons"}},
		{"day without month", &event.Event{Title: "X", Year: 1784, Day: intPtr(14)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.data)
			requireStatus(t, err, http.StatusBadRequest, "INVALID_BODY")
		})
	}
}
