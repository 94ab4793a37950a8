package movement

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("movement not found")

// Movement is one movement of a work, positioned 1..N within the work.
type Movement struct {
	ID       uuid.UUID
	WorkID   uuid.UUID
	Position int
	Title    string
	Tempo    string
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	ListByWork(ctx context.Context, workID uuid.UUID) ([]*Movement, error)
	Create(ctx context.Context, data *Movement) (*Movement, error)
	Update(ctx context.Context, data *Movement) (*Movement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
