package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/services"
	"github.com/mozartiade/archive/pkg/eventbus"
	"github.com/mozartiade/archive/pkg/logging"
	"github.com/mozartiade/archive/pkg/ordering"
	"github.com/mozartiade/archive/pkg/serrors"
)

type fakeWorkRepository struct {
	works []*work.Work
}

func (f *fakeWorkRepository) GetByID(_ context.Context, id uuid.UUID) (*work.Work, error) {
	for _, w := range f.works {
		if w.ID == id {
			copied := *w
			return &copied, nil
		}
	}
	return nil, work.ErrNotFound
}

func (f *fakeWorkRepository) GetPaginated(_ context.Context, _ *work.FindParams) ([]*work.Work, error) {
	return f.works, nil
}

func (f *fakeWorkRepository) Count(_ context.Context, _ *work.FindParams) (int64, error) {
	return int64(len(f.works)), nil
}

func (f *fakeWorkRepository) Create(_ context.Context, data *work.Work) (*work.Work, error) {
	created := *data
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	f.works = append(f.works, &created)
	return &created, nil
}

func (f *fakeWorkRepository) Update(_ context.Context, data *work.Work) (*work.Work, error) {
	for i, w := range f.works {
		if w.ID == data.ID {
			updated := *data
			updated.SortOrder = w.SortOrder
			f.works[i] = &updated
			return &updated, nil
		}
	}
	return nil, work.ErrNotFound
}

func (f *fakeWorkRepository) Delete(_ context.Context, id uuid.UUID) error {
	for i, w := range f.works {
		if w.ID == id {
			f.works = append(f.works[:i], f.works[i+1:]...)
			return nil
		}
	}
	return work.ErrNotFound
}

func (f *fakeWorkRepository) ListYearBucket(_ context.Context, year int) ([]*work.Work, error) {
	var bucket []*work.Work
	for _, w := range f.works {
		if w.Year == year && w.Reorderable() {
			bucket = append(bucket, w)
		}
	}
	return bucket, nil
}

func (f *fakeWorkRepository) UpdateOrders(_ context.Context, updates []ordering.Update) error {
	for _, u := range updates {
		for _, w := range f.works {
			if w.ID == u.ID {
				w.SortOrder = u.Order
			}
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func yearOnlyWork(kochel string, year, order int) *work.Work {
	return &work.Work{
		ID:        uuid.New(),
		Kochel:    kochel,
		Title:     kochel,
		Year:      year,
		SortOrder: order,
		CreatedAt: time.Now(),
	}
}

func newWorkService(repo work.Repository, policy ordering.BoundsPolicy) *services.WorkService {
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	return services.NewWorkService(repo, bus, ordering.NewGuard(), policy)
}

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	se := serrors.AsServiceError(err)
	require.Equal(t, status, se.Status)
	require.Equal(t, code, se.Code)
}

func TestWorkServiceReorderUnknownWork(t *testing.T) {
	repo := &fakeWorkRepository{works: []*work.Work{yearOnlyWork("K. 1", 1784, 1)}}
	svc := newWorkService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), uuid.New(), 1784, 0)
	requireStatus(t, err, http.StatusNotFound, "NOT_FOUND")
}

func TestWorkServiceReorderYearMismatch(t *testing.T) {
	w := yearOnlyWork("K. 449", 1784, 1)
	repo := &fakeWorkRepository{works: []*work.Work{w}}
	svc := newWorkService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), w.ID, 1785, 0)
	requireStatus(t, err, http.StatusBadRequest, "BUCKET_MISMATCH")
}

func TestWorkServiceReorderDatedWorkRejected(t *testing.T) {
	dated := yearOnlyWork("K. 466", 1785, 0)
	dated.Month = intPtr(2)
	dated.Day = intPtr(10)
	repo := &fakeWorkRepository{works: []*work.Work{dated}}
	svc := newWorkService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), dated.ID, 1785, 0)
	requireStatus(t, err, http.StatusBadRequest, "NOT_REORDERABLE")
}

func TestWorkServiceReorderNegativeIndexRejected(t *testing.T) {
	w := yearOnlyWork("K. 449", 1784, 1)
	repo := &fakeWorkRepository{works: []*work.Work{w, yearOnlyWork("K. 450", 1784, 2)}}
	svc := newWorkService(repo, ordering.Clamp)

	err := svc.Reorder(context.Background(), w.ID, 1784, -1)
	requireStatus(t, err, http.StatusBadRequest, "INVALID_INDEX")
}

func TestWorkServiceReorderOvershootRejectedUnderRejectPolicy(t *testing.T) {
	w := yearOnlyWork("K. 449", 1784, 1)
	repo := &fakeWorkRepository{works: []*work.Work{w, yearOnlyWork("K. 450", 1784, 2)}}
	svc := newWorkService(repo, ordering.Reject)

	err := svc.Reorder(context.Background(), w.ID, 1784, 5)
	requireStatus(t, err, http.StatusBadRequest, "INVALID_INDEX")
}

func TestWorkServiceCreateValidation(t *testing.T) {
	svc := newWorkService(&fakeWorkRepository{}, ordering.Clamp)

	cases := []struct {
		name string
		data *work.Work
	}{
		{"missing title", &work.Work{Kochel: "K. 1", Year: 1761}},
		{"missing kochel", &work.Work{Title: "Minuet", Year: 1761}},
		{"missing year", &work.Work{Title: "Minuet", Kochel: "K. 1"}},
		{"day without month", &work.Work{Title: "Minuet", Kochel: "K. 1", Year: 1761, Day: intPtr(3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.data)
			requireStatus(t, err, http.StatusBadRequest, "INVALID_BODY")
		})
	}
}

func TestWorkServiceGetByIDNotFound(t *testing.T) {
	svc := newWorkService(&fakeWorkRepository{}, ordering.Clamp)

	_, err := svc.GetByID(context.Background(), uuid.New())
	requireStatus(t, err, http.StatusNotFound, "NOT_FOUND")
}
