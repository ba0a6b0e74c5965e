package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haven-pm/haven-pm/internal/platform/httpx"
	"github.com/haven-pm/haven-pm/internal/shared"
)

// Handler exposes the permission matrix API.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	profiles  ProfileSource
	guard     Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, profiles ProfileSource, guard Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		profiles:  profiles,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(PermPermissionsView))
		r.Get("/", h.listCatalog)
		r.Get("/defaults", h.listRoleDefaults)
		r.Get("/users/{userID}", h.userMatrix)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(PermPermissionsEdit))
		r.Post("/users/{userID}/toggle", h.toggle)
	})
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": Catalog()})
}

func (h *Handler) listRoleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := h.service.RoleDefaults(r.Context())
	if err != nil {
		h.logger.Error("list role defaults", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	type row struct {
		Role    string `json:"role"`
		Code    string `json:"code"`
		Allowed bool   `json:"allowed"`
	}
	out := make([]row, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, row{Role: d.Role, Code: d.Code, Allowed: d.Allowed})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"defaults": out})
}

func (h *Handler) userMatrix(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	target, err := h.profiles.GetPrincipal(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	cells, err := h.service.Matrix(r.Context(), target.ID, target.Role)
	if err != nil {
		h.logger.Error("permission matrix", slog.String("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id": target.ID,
		"role":    target.Role,
		"cells":   cells,
	})
}

type togglePayload struct {
	Code    string `json:"code" validate:"required"`
	Current bool   `json:"current"`
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := h.profiles.GetPrincipal(r.Context(), userID); err != nil {
		httpx.RespondError(w, err)
		return
	}

	var payload togglePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, err)
		return
	}

	actorID := ""
	if access := AccessFromContext(r.Context()); access != nil {
		actorID = access.Principal.ID
	}

	override, err := h.service.Toggle(r.Context(), actorID, userID, payload.Code, payload.Current)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCode):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.Is(err, ErrOverrideExists), errors.Is(err, shared.ErrNotFound):
			// Two admins raced on the same cell; the in-memory state the
			// client toggled from is stale.
			httpx.Problem(w, http.StatusConflict, "Conflict", "permission changed concurrently, reload and retry")
		default:
			h.logger.Error("toggle permission", slog.String("user_id", userID), slog.String("code", payload.Code), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id": override.UserID,
		"code":    override.Code,
		"allowed": override.Allowed,
	})
}
