package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/catalog/domain/movement"
	"github.com/mozartiade/archive/modules/catalog/domain/relatedlink"
	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/services"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	coreservices "github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
	"github.com/mozartiade/archive/pkg/repo"
)

type SaveWorkRequest struct {
	Kochel      string `json:"kochel"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	Month       *int   `json:"month"`
	Day         *int   `json:"day"`
	Description string `json:"description"`
}

type ReorderWorkRequest struct {
	WorkID   string `json:"workId"`
	Year     int    `json:"year"`
	NewOrder int    `json:"newOrder"`
}

type SaveMovementRequest struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Tempo    string `json:"tempo"`
}

type SaveRelatedLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}

// AdminWorksController is the back-office side of the catalog: work CRUD,
// movements, related links and the year-bucket reorder operation.
type AdminWorksController struct {
	app          application.Application
	workService  *services.WorkService
	movements    *services.MovementService
	relatedLinks *services.RelatedLinkService
	authService  *coreservices.AuthService
	basePath     string
}

func NewAdminWorksController(app application.Application) application.Controller {
	return &AdminWorksController{
		app:          app,
		workService:  app.Service(services.WorkService{}).(*services.WorkService),
		movements:    app.Service(services.MovementService{}).(*services.MovementService),
		relatedLinks: app.Service(services.RelatedLinkService{}).(*services.RelatedLinkService),
		authService:  app.Service(coreservices.AuthService{}).(*coreservices.AuthService),
		basePath:     "/api/admin/works",
	}
}

func (c *AdminWorksController) Key() string {
	return c.basePath
}

func (c *AdminWorksController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAdmin(c.authService, admin.RoleEditor))

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.Delete).Methods(http.MethodDelete)

	router.HandleFunc("/{id:[0-9a-fA-F-]+}/movements", c.CreateMovement).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/movements/{movementId:[0-9a-fA-F-]+}", c.UpdateMovement).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/movements/{movementId:[0-9a-fA-F-]+}", c.DeleteMovement).Methods(http.MethodDelete)

	router.HandleFunc("/{id:[0-9a-fA-F-]+}/links", c.CreateRelatedLink).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/links/{linkId:[0-9a-fA-F-]+}", c.UpdateRelatedLink).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}/links/{linkId:[0-9a-fA-F-]+}", c.DeleteRelatedLink).Methods(http.MethodDelete)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (c *AdminWorksController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	pagination := repo.ParsePagination(r, conf.PageSize, conf.MaxPageSize)

	params := &work.FindParams{
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

	works, total, err := c.workService.GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, &ListResponse{
		Items:  toWorkResponses(works),
		Total:  total,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
}

func (c *AdminWorksController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	found, err := c.workService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toWorkResponse(found))
}

func (c *AdminWorksController) Create(w http.ResponseWriter, r *http.Request) {
	var body SaveWorkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.workService.Create(r.Context(), &work.Work{
		Kochel:      body.Kochel,
		Title:       body.Title,
		Category:    body.Category,
		Year:        body.Year,
		Month:       body.Month,
		Day:         body.Day,
		Description: body.Description,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toWorkResponse(created))
}

func (c *AdminWorksController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	var body SaveWorkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.workService.Update(r.Context(), &work.Work{
		ID:          id,
		Kochel:      body.Kochel,
		Title:       body.Title,
		Category:    body.Category,
		Year:        body.Year,
		Month:       body.Month,
		Day:         body.Day,
		Description: body.Description,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toWorkResponse(updated))
}

func (c *AdminWorksController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	if err := c.workService.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}

// Reorder moves one year-only work to a new position in its year bucket.
func (c *AdminWorksController) Reorder(w http.ResponseWriter, r *http.Request) {
	var body ReorderWorkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	workID, err := uuid.Parse(body.WorkID)
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	if err := c.workService.Reorder(r.Context(), workID, body.Year, body.NewOrder); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, map[string]string{"message": "work order updated"})
}

func (c *AdminWorksController) CreateMovement(w http.ResponseWriter, r *http.Request) {
	workID, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	var body SaveMovementRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.movements.Create(r.Context(), &movement.Movement{
		WorkID:   workID,
		Position: body.Position,
		Title:    body.Title,
		Tempo:    body.Tempo,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toMovementResponses([]*movement.Movement{created})[0])
}

func (c *AdminWorksController) UpdateMovement(w http.ResponseWriter, r *http.Request) {
	workID, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	movementID, ok := pathUUID(r, "movementId")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid movement id")
		return
	}
	var body SaveMovementRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.movements.Update(r.Context(), &movement.Movement{
		ID:       movementID,
		WorkID:   workID,
		Position: body.Position,
		Title:    body.Title,
		Tempo:    body.Tempo,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toMovementResponses([]*movement.Movement{updated})[0])
}

func (c *AdminWorksController) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	movementID, ok := pathUUID(r, "movementId")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid movement id")
		return
	}
	if err := c.movements.Delete(r.Context(), movementID); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}

func (c *AdminWorksController) CreateRelatedLink(w http.ResponseWriter, r *http.Request) {
	workID, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	var body SaveRelatedLinkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.relatedLinks.Create(r.Context(), &relatedlink.RelatedLink{
		WorkID: workID,
		Title:  body.Title,
		URL:    body.URL,
		Kind:   relatedlink.Kind(body.Kind),
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toRelatedLinkResponses([]*relatedlink.RelatedLink{created})[0])
}

func (c *AdminWorksController) UpdateRelatedLink(w http.ResponseWriter, r *http.Request) {
	workID, ok := pathUUID(r, "id")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	linkID, ok := pathUUID(r, "linkId")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid link id")
		return
	}
	var body SaveRelatedLinkRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.relatedLinks.Update(r.Context(), &relatedlink.RelatedLink{
		ID:     linkID,
		WorkID: workID,
		Title:  body.Title,
		URL:    body.URL,
		Kind:   relatedlink.Kind(body.Kind),
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toRelatedLinkResponses([]*relatedlink.RelatedLink{updated})[0])
}

func (c *AdminWorksController) DeleteRelatedLink(w http.ResponseWriter, r *http.Request) {
	linkID, ok := pathUUID(r, "linkId")
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid link id")
		return
	}
	if err := c.relatedLinks.Delete(r.Context(), linkID); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}
