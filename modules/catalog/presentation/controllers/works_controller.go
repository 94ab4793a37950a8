package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/catalog/domain/work"
	"github.com/mozartiade/archive/modules/catalog/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/repo"
)

// WorksController serves the public, read-only side of the catalog.
type WorksController struct {
	app          application.Application
	workService  *services.WorkService
	movements    *services.MovementService
	relatedLinks *services.RelatedLinkService
	likes        *services.LikeService
	basePath     string
}

func NewWorksController(app application.Application) application.Controller {
	return &WorksController{
		app:          app,
		workService:  app.Service(services.WorkService{}).(*services.WorkService),
		movements:    app.Service(services.MovementService{}).(*services.MovementService),
		relatedLinks: app.Service(services.RelatedLinkService{}).(*services.RelatedLinkService),
		likes:        app.Service(services.LikeService{}).(*services.LikeService),
		basePath:     "/api/works",
	}
}

func (c *WorksController) Key() string {
	return c.basePath
}

func (c *WorksController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9a-fA-F-]+}", c.GetByID).Methods(http.MethodGet)
}

func (c *WorksController) List(w http.ResponseWriter, r *http.Request) {
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

func (c *WorksController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}

	found, err := c.workService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	movements, err := c.movements.ListByWork(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	links, err := c.relatedLinks.ListByWork(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	likeCount, err := c.likes.CountByWork(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}

	httpapi.WriteSuccess(w, http.StatusOK, &WorkDetailResponse{
		WorkResponse: *toWorkResponse(found),
		Movements:    toMovementResponses(movements),
		RelatedLinks: toRelatedLinkResponses(links),
		LikeCount:    likeCount,
	})
}
