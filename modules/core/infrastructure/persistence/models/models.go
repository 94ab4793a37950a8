package models

import (
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type User struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

type Session struct {
	Token     uuid.UUID
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}
