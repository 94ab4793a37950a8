package persistence

import (
	"github.com/mozartiade/archive/modules/catalog/domain/movement"
	"github.com/mozartiade/archive/modules/catalog/domain/relatedlink"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/infrastructure/persistence/models"
)

func toDomainWork(m *models.Work) *work.Work {
	return &work.Work{
		ID:          m.ID,
		Kochel:      m.Kochel,
		Title:       m.Title,
		Category:    m.Category,
		Year:        m.Year,
		Month:       m.Month,
		Day:         m.Day,
		SortOrder:   m.SortOrder,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainMovement(m *models.Movement) *movement.Movement {
	return &movement.Movement{
		ID:       m.ID,
		WorkID:   m.WorkID,
		Position: m.Position,
		Title:    m.Title,
		Tempo:    m.Tempo,
	}
}

func toDomainRelatedLink(m *models.RelatedLink) *relatedlink.RelatedLink {
	return &relatedlink.RelatedLink{
		ID:     m.ID,
		WorkID: m.WorkID,
		Title:  m.Title,
		URL:    m.URL,
		Kind:   relatedlink.Kind(m.Kind),
	}
}
