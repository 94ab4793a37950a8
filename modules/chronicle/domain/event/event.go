package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mozartiade/archive/pkg/ordering"
)

var ErrNotFound = errors.New("chronicle entry not found")

// Event is one life-chronicle entry. Like works, an entry is manually
// orderable within its year only while month and day are both absent.
type Event struct {
	ID        uuid.UUID
	Year      int
	Month     *int
	Day       *int
	Title     string
	Body      string
	Category  string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Event) Reorderable() bool {
	return e.Month == nil && e.Day == nil
}

type FindParams struct {
	Year     *int
	Category string
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Event, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, data *Event) (*Event, error)
	Update(ctx context.Context, data *Event) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListYearBucket(ctx context.Context, year int) ([]*Event, error)
	UpdateOrders(ctx context.Context, updates []ordering.Update) error
}

type CreatedEvent struct {
	Result *Event
}

type UpdatedEvent struct {
	Result *Event
}

type DeletedEvent struct {
	Result *Event
}

type ReorderedEvent struct {
	Year int
}
