package persistence

import (
	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/modules/core/domain/entities/session"
	"github.com/mozartiade/archive/modules/core/infrastructure/persistence/models"
)

func toDomainAdmin(m *models.Admin) (*admin.Admin, error) {
	role, err := admin.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &admin.Admin{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func toDomainUser(m *models.User) *user.User {
	return &user.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLogin:    m.LastLogin,
	}
}

func toDomainSession(m *models.Session) *session.Session {
	return &session.Session{
		Token:     m.Token,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
