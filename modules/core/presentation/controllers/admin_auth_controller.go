package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
)

type AdminLoginResponse struct {
	Token string         `json:"token"`
	Admin *AdminResponse `json:"admin"`
}

type AdminResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdminResponse(a *admin.Admin) *AdminResponse {
	return &AdminResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}

func toAdminResponses(admins []*admin.Admin) []*AdminResponse {
	out := make([]*AdminResponse, len(admins))
	for i, a := range admins {
		out[i] = toAdminResponse(a)
	}
	return out
}

// AdminAuthController issues admin bearer tokens and exposes the identity
// behind one.
type AdminAuthController struct {
	app         application.Application
	authService *services.AuthService
	basePath    string
}

func NewAdminAuthController(app application.Application) application.Controller {
	return &AdminAuthController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
		basePath:    "/api/admin/auth",
	}
}

func (c *AdminAuthController) Key() string {
	return c.basePath
}

func (c *AdminAuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/login", c.Login).Methods(http.MethodPost)

	meRouter := r.PathPrefix(c.basePath + "/me").Subrouter()
	meRouter.Use(middleware.RequireAdmin(c.authService, admin.RoleEditor))
	meRouter.HandleFunc("", c.Me).Methods(http.MethodGet)
}

func (c *AdminAuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	a, token, err := c.authService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, &AdminLoginResponse{
		Token: token,
		Admin: toAdminResponse(a),
	})
}

func (c *AdminAuthController) Me(w http.ResponseWriter, r *http.Request) {
	a, err := composables.UseAdmin(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toAdminResponse(a))
}
