package controllers

import (
	"github.com/mozartiade/archive/modules/catalog/domain/movement"
	"github.com/mozartiade/archive/modules/catalog/domain/relatedlink"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
)

type WorkResponse struct {
	ID          string `json:"id"`
	Kochel      string `json:"kochel"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	Month       *int   `json:"month"`
	Day         *int   `json:"day"`
	SortOrder   int    `json:"sortOrder"`
	Description string `json:"description,omitempty"`
	Reorderable bool   `json:"reorderable"`
}

type MovementResponse struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Tempo    string `json:"tempo,omitempty"`
}

type RelatedLinkResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}

type WorkDetailResponse struct {
	WorkResponse
	Movements    []*MovementResponse    `json:"movements"`
	RelatedLinks []*RelatedLinkResponse `json:"relatedLinks"`
	LikeCount    int64                  `json:"likeCount"`
}

type ListResponse struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func toWorkResponse(w *work.Work) *WorkResponse {
	return &WorkResponse{
		ID:          w.ID.String(),
		Kochel:      w.Kochel,
		Title:       w.Title,
		Category:    w.Category,
		Year:        w.Year,
		Month:       w.Month,
		Day:         w.Day,
		SortOrder:   w.SortOrder,
		Description: w.Description,
		Reorderable: w.Reorderable(),
	}
}

func toWorkResponses(works []*work.Work) []*WorkResponse {
	out := make([]*WorkResponse, len(works))
	for i, w := range works {
		out[i] = toWorkResponse(w)
	}
	return out
}

func toMovementResponses(movements []*movement.Movement) []*MovementResponse {
	out := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		out[i] = &MovementResponse{
			ID:       m.ID.String(),
			Position: m.Position,
			Title:    m.Title,
			Tempo:    m.Tempo,
		}
	}
	return out
}

func toRelatedLinkResponses(links []*relatedlink.RelatedLink) []*RelatedLinkResponse {
	out := make([]*RelatedLinkResponse, len(links))
	for i, l := range links {
		out[i] = &RelatedLinkResponse{
			ID:    l.ID.String(),
			Title: l.Title,
			URL:   l.URL,
			Kind:  string(l.Kind),
		}
	}
	return out
}
