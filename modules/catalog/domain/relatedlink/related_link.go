package relatedlink

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("related link not found")

type Kind string

const (
	KindRecording Kind = "recording"
	KindScore     Kind = "score"
	KindArticle   Kind = "article"
	KindOther     Kind = "other"
)

func (k Kind) Valid() bool {
	switch k {
	case KindRecording, KindScore, KindArticle, KindOther:
		return true
	default:
		return false
	}
}

// RelatedLink points from a work to external material (recordings, scores,
// articles).
type RelatedLink struct {
	ID     uuid.UUID
	WorkID uuid.UUID
	Title  string
	URL    string
	Kind   Kind
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RelatedLink, error)
	ListByWork(ctx context.Context, workID uuid.UUID) ([]*RelatedLink, error)
	Create(ctx context.Context, data *RelatedLink) (*RelatedLink, error)
	Update(ctx context.Context, data *RelatedLink) (*RelatedLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
