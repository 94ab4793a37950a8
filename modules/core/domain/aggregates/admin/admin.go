package admin

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("admin not found")

// Admin is a back-office account. Password hashing lives in the service
// layer; the aggregate only carries the hash.
type Admin struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Admin, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, data *Admin) (*Admin, error)
	Update(ctx context.Context, data *Admin) (*Admin, error)
	Delete(ctx context.Context, id uint) error
}
