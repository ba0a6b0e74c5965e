package inspections

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// Handler manages inspection endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers inspection routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireApproved)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("inspections.create"))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("inspections.edit"))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("inspections.delete"))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	access := authz.AccessFromContext(r.Context())
	inspections, err := h.service.List(r.Context(), access)
	if err != nil {
		h.logger.Error("list inspections", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"inspections": inspections})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	inspection, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inspection)
}

type createPayload struct {
	PropertyID  int64     `json:"property_id" validate:"required,gt=0"`
	UnitID      *int64    `json:"unit_id"`
	Kind        string    `json:"kind" validate:"required,oneof=move_in move_out routine"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	AssignedTo  *string   `json:"assigned_to"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inspection, err := h.service.Create(r.Context(), CreateInput{
		PropertyID:  payload.PropertyID,
		UnitID:      payload.UnitID,
		Kind:        payload.Kind,
		ScheduledAt: payload.ScheduledAt,
		AssignedTo:  payload.AssignedTo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inspection)
}

type updatePayload struct {
	Kind        *string    `json:"kind" validate:"omitempty,oneof=move_in move_out routine"`
	Status      *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Findings    *string    `json:"findings"`
	AssignedTo  *string    `json:"assigned_to"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	var payload updatePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.RespondError(w, err)
		return
	}
	inspection, err := h.service.Update(r.Context(), id, UpdateInput{
		Kind:        payload.Kind,
		Status:      payload.Status,
		ScheduledAt: payload.ScheduledAt,
		Findings:    payload.Findings,
		AssignedTo:  payload.AssignedTo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inspection)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
