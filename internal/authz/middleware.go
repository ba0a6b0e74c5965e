package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/haven-pm/haven-pm/internal/platform/httpx"
	"github.com/haven-pm/haven-pm/internal/shared"
)

// Access bundles the per-request principal and indexed permission tables.
// It is resolved once per request, after the session but before any
// handler runs, so permission checks inside handlers stay in-memory.
type Access struct {
	Principal Principal
	Ruleset   *Ruleset
}

type accessContextKey struct{}

// ContextWithAccess stores the access bundle in context.
func ContextWithAccess(ctx context.Context, a *Access) context.Context {
	return context.WithValue(ctx, accessContextKey{}, a)
}

// AccessFromContext extracts the access bundle, nil when anonymous.
func AccessFromContext(ctx context.Context) *Access {
	a, _ := ctx.Value(accessContextKey{}).(*Access)
	return a
}

// ProfileSource looks up the stored profile backing a session user.
type ProfileSource interface {
	GetPrincipal(ctx context.Context, userID string) (Principal, error)
}

// Middleware wires authorization guards for HTTP handlers.
type Middleware struct {
	Service  *Service
	Profiles ProfileSource
	Logger   *slog.Logger
}

// WithAccess resolves the session user into an Access bundle. Anonymous
// requests pass through without one; the Require guards reject those.
func (m Middleware) WithAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := m.Profiles.GetPrincipal(r.Context(), sess.User())
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("load principal", slog.String("user_id", sess.User()), slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		rs, err := m.Service.Ruleset(r.Context())
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("load ruleset", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		ctx := ContextWithAccess(r.Context(), &Access{Principal: principal, Ruleset: rs})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require ensures the current user holds the permission. Unauthenticated
// requests get 401, unapproved or unpermitted ones 403. Denial is a plain
// status, never an error value leaking out of the resolver.
func (m Middleware) Require(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := AccessFromContext(r.Context())
			if access == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if !access.Principal.Approved || !access.Ruleset.Allows(access.Principal, code) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny ensures the current user holds at least one of the permissions.
func (m Middleware) RequireAny(codes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := AccessFromContext(r.Context())
			if access == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if access.Principal.Approved {
				for _, code := range codes {
					if access.Ruleset.Allows(access.Principal, code) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
		})
	}
}

// RequireApproved gates routes that any approved principal may use.
func (m Middleware) RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access := AccessFromContext(r.Context())
		if access == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		if !access.Principal.Approved {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "account pending approval")
			return
		}
		next.ServeHTTP(w, r)
	})
}
