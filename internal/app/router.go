package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/haven-pm/haven-pm/internal/appointments"
	"github.com/haven-pm/haven-pm/internal/auth"
	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/courtdates"
	"github.com/haven-pm/haven-pm/internal/inspections"
	"github.com/haven-pm/haven-pm/internal/observability"
	"github.com/haven-pm/haven-pm/internal/properties"
	"github.com/haven-pm/haven-pm/internal/shared"
	"github.com/haven-pm/haven-pm/internal/showings"
	"github.com/haven-pm/haven-pm/internal/tenants"
	"github.com/haven-pm/haven-pm/internal/users"
	"github.com/haven-pm/haven-pm/internal/workorders"
	"github.com/haven-pm/haven-pm/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Access         authz.Middleware

	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	PermissionsHandler  *authz.Handler
	PropertiesHandler   *properties.Handler
	TenantsHandler      *tenants.Handler
	WorkOrdersHandler   *workorders.Handler
	ShowingsHandler     *showings.Handler
	InspectionsHandler  *inspections.Handler
	AppointmentsHandler *appointments.Handler
	CourtDatesHandler   *courtdates.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Haven defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below resolves the caller's ruleset once per request.
	r.Group(func(r chi.Router) {
		r.Use(params.Access.WithAccess)

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		r.Route("/properties", params.PropertiesHandler.MountRoutes)
		r.Route("/tenants", params.TenantsHandler.MountRoutes)
		r.Route("/work-orders", params.WorkOrdersHandler.MountRoutes)
		r.Route("/showings", params.ShowingsHandler.MountRoutes)
		r.Route("/inspections", params.InspectionsHandler.MountRoutes)
		r.Route("/appointments", params.AppointmentsHandler.MountRoutes)
		r.Route("/court-dates", params.CourtDatesHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
