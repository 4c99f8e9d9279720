package users

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/helmsman-kit/helmsman/internal/authz"
	"github.com/helmsman-kit/helmsman/internal/platform/httpx"
	"github.com/helmsman-kit/helmsman/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers user management and profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(authz.ActionViewUsers))
			r.Get("/", h.listUsers)
			r.Get("/stats", h.stats)
		})
		r.With(h.guard.Require(authz.ActionCreateUser)).Post("/", h.createUser)
		r.Get("/{id}", h.getUser)
		r.With(h.guard.RequireForTarget(authz.ActionEditUser, "id")).Put("/{id}", h.updateUser)
		r.With(h.guard.RequireForTarget(authz.ActionDeleteUser, "id")).Delete("/{id}", h.deleteUser)
	})
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.getProfile)
		r.Put("/", h.updateProfile)
		r.Delete("/", h.closeAccount)
	})
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listResponse struct {
	Users      []userResponse `json:"users"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Name  string  `json:"name" validate:"required"`
	Role  *string `json:"role"`
}

type profileRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

type statsResponse struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Admins        int `json:"admins"`
	Moderators    int `json:"moderators"`
	Users         int `json:"users"`
	RecentSignups int `json:"recent_signups"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	list, pagination, err := h.service.List(r.Context(), principal, page, perPage)
	if err != nil {
		h.respondError(w, "list users", err)
		return
	}
	resp := listResponse{
		Users:      make([]userResponse, 0, len(list)),
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	}
	for _, user := range list {
		resp.Users = append(resp.Users, toUserResponse(user))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	stats, err := h.service.Stats(r.Context(), principal)
	if err != nil {
		h.respondError(w, "user stats", err)
		return
	}
	httpx.JSON(w, http.StatusOK, statsResponse{
		Total:         stats.Total,
		Active:        stats.Active,
		Admins:        stats.Admins,
		Moderators:    stats.Moderators,
		Users:         stats.Users,
		RecentSignups: stats.RecentSignups,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	id, err := h.targetID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Target", "")
		return
	}
	user, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.respondError(w, "get user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.Create(r.Context(), principal, CreateInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     authz.Role(req.Role),
	})
	if err != nil {
		h.respondError(w, "create user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	id, err := h.targetID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Target", "")
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := UpdateInput{Email: req.Email, Name: req.Name}
	if req.Role != nil {
		role := authz.Role(*req.Role)
		input.Role = &role
	}
	user, err := h.service.Update(r.Context(), principal, id, input)
	if err != nil {
		h.respondError(w, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	id, err := h.targetID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Target", "")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.respondError(w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	user, err := h.service.Get(r.Context(), principal, principal.ID)
	if err != nil {
		h.respondError(w, "get profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), principal, ProfileInput{Email: req.Email, Name: req.Name})
	if err != nil {
		h.respondError(w, "update profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) closeAccount(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if err := h.service.CloseOwnAccount(r.Context(), principal); err != nil {
		h.respondError(w, "close account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) targetID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "")
		return
	case errors.Is(err, shared.ErrDuplicateEmail):
		httpx.Problem(w, http.StatusConflict, "Duplicate", shared.ErrDuplicateEmail.Error())
		return
	}
	if !errors.Is(err, httpx.ErrForbidden) && !errors.Is(err, httpx.ErrUnauthorized) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func toUserResponse(user User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
