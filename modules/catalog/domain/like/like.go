package like

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Like records that a user marked a work. The pair (UserID, WorkID) is
// unique; liking twice is a no-op.
type Like struct {
	UserID    uint
	WorkID    uuid.UUID
	CreatedAt time.Time
}

type Repository interface {
	Add(ctx context.Context, userID uint, workID uuid.UUID) error
	Remove(ctx context.Context, userID uint, workID uuid.UUID) error
	Exists(ctx context.Context, userID uint, workID uuid.UUID) (bool, error)
	CountByWork(ctx context.Context, workID uuid.UUID) (int64, error)
	ListWorkIDsByUser(ctx context.Context, userID uint) ([]uuid.UUID, error)
}
