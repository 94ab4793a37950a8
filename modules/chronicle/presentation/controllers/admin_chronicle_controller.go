package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/chronicle/domain/event"
	"github.com/mozartiade/archive/modules/chronicle/services"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	coreservices "github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
	"github.com/mozartiade/archive/pkg/repo"
)

type SaveEventRequest struct {
	Year     int    `json:"year"`
	Month    *int   `json:"month"`
	Day      *int   `json:"day"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}

type ReorderEventRequest struct {
	ChronicleID string `json:"chronicleId"`
	Year        int    `json:"year"`
	NewOrder    int    `json:"newOrder"`
}

// AdminChronicleController is the back-office side of the chronicle.
type AdminChronicleController struct {
	app         application.Application
	events      *services.EventService
	authService *coreservices.AuthService
	basePath    string
}

func NewAdminChronicleController(app application.Application) application.Controller {
	return &AdminChronicleController{
		app:         app,
		events:      app.Service(services.EventService{}).(*services.EventService),
		authService: app.Service(coreservices.AuthService{}).(*coreservices.AuthService),
		basePath:    "/api/admin/chronicle",
	}
}

func (c *AdminChronicleController) Key() string {
	return c.basePath
}

func (c *AdminChronicleController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAdmin(c.authService, admin.RoleEditor))

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Delete).Methods(http.MethodDelete)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (c *AdminChronicleController) List(w http.ResponseWriter, r *http.Request) {
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

func (c *AdminChronicleController) Create(w http.ResponseWriter, r *http.Request) {
	var body SaveEventRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.events.Create(r.Context(), &event.Event{
		Year:     body.Year,
		Month:    body.Month,
		Day:      body.Day,
		Title:    body.Title,
		Body:     body.Body,
		Category: body.Category,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toEventResponse(created))
}

func (c *AdminChronicleController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid chronicle entry id")
		return
	}
	var body SaveEventRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.events.Update(r.Context(), &event.Event{
		ID:       id,
		Year:     body.Year,
		Month:    body.Month,
		Day:      body.Day,
		Title:    body.Title,
		Body:     body.Body,
		Category: body.Category,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toEventResponse(updated))
}

func (c *AdminChronicleController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid chronicle entry id")
		return
	}
	if err := c.events.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}

// Reorder moves one year-only entry to a new position in its year bucket.
func (c *AdminChronicleController) Reorder(w http.ResponseWriter, r *http.Request) {
	var body ReorderEventRequest
	if !decodeBody(w, r, &body) {
		return
	}
	entryID, err := uuid.Parse(body.ChronicleID)
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid chronicle entry id")
		return
	}
	if err := c.events.Reorder(r.Context(), entryID, body.Year, body.NewOrder); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, map[string]string{"message": "chronicle order updated"})
}
