package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	"github.com/mozartiade/archive/modules/chronicle/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/repo"
)

type EventResponse struct {
	ID          string `json:"id"`
	Year        int    `json:"year"`
	Month       *int   `json:"month"`
	Day         *int   `json:"day"`
	Title       string `json:"title"`
	Body        string `json:"body,omitempty"`
	Category    string `json:"category"`
	SortOrder   int    `json:"sortOrder"`
	Reorderable bool   `json:"reorderable"`
}

type ListResponse struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID.String(),
		Year:        e.Year,
		Month:       e.Month,
		Day:         e.Day,
		Title:       e.Title,
		Body:        e.Body,
		Category:    e.Category,
		SortOrder:   e.SortOrder,
		Reorderable: e.Reorderable(),
	}
}

func toEventResponses(events []*event.Event) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}

// ChronicleController serves the public, read-only life chronicle.
type ChronicleController struct {
	app      application.Application
	events   *services.EventService
	basePath string
}

func NewChronicleController(app application.Application) application.Controller {
	return &ChronicleController{
		app:      app,
		events:   app.Service(services.EventService{}).(*services.EventService),
		basePath: "/api/chronicle",
	}
}

func (c *ChronicleController) Key() string {
	return c.basePath
}

func (c *ChronicleController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.GetByID).Methods(http.MethodGet)
}

func (c *ChronicleController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	pagination := repo.ParsePagination(r, conf.PageSize, conf.MaxPageSize)

	params := &event.FindParams{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpapi.WriteFailure(w, http.StatusBadRequest, "year must be a number")
			return
		}
		params.Year = &year
	}

	events, total, err := c.events.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, &ListResponse{
		Items:  toEventResponses(events),
		Total:  total,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
}

func (c *ChronicleController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid chronicle entry id")
		return
	}
	found, err := c.events.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toEventResponse(found))
}
