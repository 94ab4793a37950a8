package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/catalog/services"
	coreservices "github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
)

// LikesController covers the signed-in user's interaction with the catalog:
// liking a work and listing liked works.
type LikesController struct {
	app         application.Application
	likes       *services.LikeService
	userService *coreservices.UserService
}

func NewLikesController(app application.Application) application.Controller {
	return &LikesController{
		app:         app,
		likes:       app.Service(services.LikeService{}).(*services.LikeService),
		userService: app.Service(coreservices.UserService{}).(*coreservices.UserService),
	}
}

func (c *LikesController) Key() string {
	return "/api/likes"
}

func (c *LikesController) Register(r *mux.Router) {
	cookie := configuration.Use().SidCookieKey

	likeRouter := r.PathPrefix("/api/works/{id:[0-9a-fA-F-]+}/like").Subrouter()
	likeRouter.Use(middleware.RequireUser(c.userService, cookie))
	likeRouter.HandleFunc("", c.Like).Methods(http.MethodPut)
	likeRouter.HandleFunc("", c.Unlike).Methods(http.MethodDelete)

	accountRouter := r.PathPrefix("/api/account/likes").Subrouter()
	accountRouter.Use(middleware.RequireUser(c.userService, cookie))
	accountRouter.HandleFunc("", c.ListLiked).Methods(http.MethodGet)
}

func (c *LikesController) workID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func (c *LikesController) Like(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	workID, ok := c.workID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	if err := c.likes.Like(r.Context(), u.ID, workID); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, map[string]bool{"liked": true})
}

func (c *LikesController) Unlike(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	workID, ok := c.workID(r)
	if !ok {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid work id")
		return
	}
	if err := c.likes.Unlike(r.Context(), u.ID, workID); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, map[string]bool{"liked": false})
}

func (c *LikesController) ListLiked(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	works, err := c.likes.LikedWorks(r.Context(), u.ID)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toWorkResponses(works))
}
