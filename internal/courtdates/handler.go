package courtdates

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

// Handler manages court date endpoints.
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

// MountRoutes registers court date routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireApproved)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("court_dates.create"))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("court_dates.edit"))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("court_dates.delete"))
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	access := authz.AccessFromContext(r.Context())
	dates, err := h.service.List(r.Context(), access)
	if err != nil {
		h.logger.Error("list court dates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"court_dates": dates})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	date, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, date)
}

type createPayload struct {
	PropertyID int64     `json:"property_id" validate:"required,gt=0"`
	TenantID   *int64    `json:"tenant_id"`
	CaseNumber string    `json:"case_number" validate:"required"`
	Courtroom  string    `json:"courtroom"`
	HearingAt  time.Time `json:"hearing_at" validate:"required"`
	AssignedTo *string   `json:"assigned_to"`
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
	date, err := h.service.Create(r.Context(), CreateInput{
		PropertyID: payload.PropertyID,
		TenantID:   payload.TenantID,
		CaseNumber: payload.CaseNumber,
		Courtroom:  payload.Courtroom,
		HearingAt:  payload.HearingAt,
		AssignedTo: payload.AssignedTo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, date)
}

type updatePayload struct {
	CaseNumber *string    `json:"case_number"`
	Courtroom  *string    `json:"courtroom"`
	HearingAt  *time.Time `json:"hearing_at"`
	Outcome    *string    `json:"outcome" validate:"omitempty,oneof=pending judgment dismissed continued settled"`
	Notes      *string    `json:"notes"`
	AssignedTo *string    `json:"assigned_to"`
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
	date, err := h.service.Update(r.Context(), id, UpdateInput{
		CaseNumber: payload.CaseNumber,
		Courtroom:  payload.Courtroom,
		HearingAt:  payload.HearingAt,
		Outcome:    payload.Outcome,
		Notes:      payload.Notes,
		AssignedTo: payload.AssignedTo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, date)
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
