package models

import (
	"time"

	"github.com/google/uuid"
)

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

type Movement struct {
	ID       uuid.UUID
	WorkID   uuid.UUID
	Position int
	Title    string
	Tempo    string
}

type RelatedLink struct {
	ID     uuid.UUID
	WorkID uuid.UUID
	Title  string
	URL    string
	Kind   string
}
