package work

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mozartiade/archive/pkg/ordering"
)

// ErrNotFound is returned by repositories when no work matches.
var ErrNotFound = errors.New("work not found")

// Work is one catalogued composition. Month and Day refine the composition
// date when known; a work participates in manual ordering only while both
// are absent (year-only works).
type Work struct {
	ID          uuid.UUID
	Kochel      string
	Title       string
	Category    string
	Year        int
	Month       *int
	Day         *int
	SortOrder   int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reorderable reports whether the work may be manually arranged within its
// year bucket.
func (w *Work) Reorderable() bool {
	return w.Month == nil && w.Day == nil
}

type FindParams struct {
	Year     *int
	Category string
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Work, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Work, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, data *Work) (*Work, error)
	Update(ctx context.Context, data *Work) (*Work, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListYearBucket returns the year-only works of the given year sorted
	// by (sort_order asc, created_at asc).
	ListYearBucket(ctx context.Context, year int) ([]*Work, error)
	// UpdateOrders persists the given (id, order) pairs. Callers wrap it in
	// a batch transaction so the rewrite is all-or-nothing.
	UpdateOrders(ctx context.Context, updates []ordering.Update) error
}
