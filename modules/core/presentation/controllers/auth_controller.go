package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/modules/core/services"
	"github.com/mozartiade/archive/pkg/application"
	"github.com/mozartiade/archive/pkg/composables"
	"github.com/mozartiade/archive/pkg/configuration"
	"github.com/mozartiade/archive/pkg/httpapi"
	"github.com/mozartiade/archive/pkg/middleware"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UserResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func toUserResponse(u *user.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, LastLogin: u.LastLogin}
}

func parseSessionToken(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpapi.WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// AuthController covers end-user registration, session login and the
// account endpoints. The session rides in an http-only cookie.
type AuthController struct {
	app         application.Application
	userService *services.UserService
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:         app,
		userService: app.Service(services.UserService{}).(*services.UserService),
	}
}

func (c *AuthController) Key() string {
	return "/api/auth"
}

func (c *AuthController) Register(r *mux.Router) {
	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", c.RegisterUser).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", c.Login).Methods(http.MethodPost)
	authRouter.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)

	accountRouter := r.PathPrefix("/api/account").Subrouter()
	accountRouter.Use(middleware.RequireUser(c.userService, configuration.Use().SidCookieKey))
	accountRouter.HandleFunc("/me", c.Me).Methods(http.MethodGet)
	accountRouter.HandleFunc("/me", c.UpdateProfile).Methods(http.MethodPatch)
	accountRouter.HandleFunc("/password", c.ChangePassword).Methods(http.MethodPost)
}

func (c *AuthController) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := c.userService.Register(r.Context(), body.Email, body.Name, body.Password)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusCreated, toUserResponse(created))
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, sess, err := c.userService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}

	conf := configuration.Use()
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    sess.Token.String(),
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		SameSite: http.SameSiteLaxMode,
	})
	httpapi.WriteSuccess(w, http.StatusOK, toUserResponse(u))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	if cookie, err := r.Cookie(conf.SidCookieKey); err == nil && cookie.Value != "" {
		if token, err := parseSessionToken(cookie.Value); err == nil {
			if err := c.userService.Logout(r.Context(), token); err != nil {
				httpapi.WriteServiceError(w, err)
				return
			}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toUserResponse(u))
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var body UpdateProfileRequest
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := c.userService.UpdateProfile(r.Context(), u.ID, body.Name)
	if err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, toUserResponse(updated))
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, err := composables.UseUser(r.Context())
	if err != nil {
		httpapi.WriteFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var body ChangePasswordRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := c.userService.ChangePassword(r.Context(), u.ID, body.CurrentPassword, body.NewPassword); err != nil {
		httpapi.WriteServiceError(w, err)
		return
	}
	httpapi.WriteSuccess(w, http.StatusOK, nil)
}
