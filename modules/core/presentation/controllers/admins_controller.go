package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
	"github.com/mozartiade/archive/pkg/repo"
)

type CreateAdminRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateAdminRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type ResetAdminPasswordRequest struct {
	Password string `json:"password"`
}

type AdminListResponse struct {
	Items  []*AdminResponse `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// AdminsController manages back-office accounts. Only full admins may enter;
// the service layer enforces the super-admin rules per target.
type AdminsController struct {
	app          application.Application
	adminService *services.AdminService
	authService  *services.AuthService
	basePath     string
}

func NewAdminsController(app application.Application) application.Controller {
	return &AdminsController{
		app:          app,
		adminService: app.Service(services.AdminService{}).(*services.AdminService),
		authService:  app.Service(services.AuthService{}).(*services.AuthService),
		basePath:     "/api/admin/admins",
	}
}

func (c *AdminsController) Key() string {
	return c.basePath
}

func (c *AdminsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.RequireAdmin(c.authService, admin.RoleAdmin))

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id:[0-9]+}/password", c.ResetPassword).Methods(http.MethodPost)
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id), err == nil
}

func (c *AdminsController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	pagination := repo.ParsePagination(r, conf.PageSize, conf.MaxPageSize)

	admins, total, err := c.adminService.GetPaginatedWithTotal(r.Context(), &admin.FindParams{
		Search: r.URL.Query().Get("q"),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, &AdminListResponse{
		Items:  toAdminResponses(admins),
		Total:  total,
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
}

func (c *AdminsController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	a, err := c.adminService.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toAdminResponse(a))
}

func (c *AdminsController) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateAdminRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.adminService.Create(r.Context(), body.Email, body.Name, body.Password, admin.Role(body.Role))
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toAdminResponse(created))
}

func (c *AdminsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	var body UpdateAdminRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.adminService.Update(r.Context(), id, body.Name, admin.Role(body.Role))
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toAdminResponse(updated))
}

func (c *AdminsController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	var body ResetAdminPasswordRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := c.adminService.ChangePassword(r.Context(), id, body.Password); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}

func (c *AdminsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid admin id")
		return
	}
	if err := c.adminService.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}
