package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
	"github.com/haven-pm/haven-pm/internal/shared"
)

var knownRoles = map[string]struct{}{
	authz.RoleSuperAdmin:      {},
	authz.RolePropertyManager: {},
	authz.RoleSubContractor:   {},
	authz.RolePending:         {},
}

// Service handles user directory business logic.
type Service struct {
	repo   RepositoryPort
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches a single profile.
func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// GetPrincipal adapts the stored profile into the shape authorization
// checks consume. Satisfies authz.ProfileSource.
func (s *Service) GetPrincipal(ctx context.Context, userID string) (authz.Principal, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{ID: user.ID, Role: user.Role, Approved: user.Approved}, nil
}

// SetRole changes a user's role after validating it.
func (s *Service) SetRole(ctx context.Context, actorID, userID, role string) error {
	if _, ok := knownRoles[role]; !ok {
		return fmt.Errorf("unknown role %q: %w", role, httpx.ErrValidation)
	}
	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.record(ctx, actorID, "users.set_role", userID, map[string]any{"role": role})
	return nil
}

// SetApproved flips the approval flag gating all access.
func (s *Service) SetApproved(ctx context.Context, actorID, userID string, approved bool) error {
	if err := s.repo.SetApproved(ctx, userID, approved); err != nil {
		return err
	}
	s.record(ctx, actorID, "users.set_approved", userID, map[string]any{"approved": approved})
	return nil
}

func (s *Service) record(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: entityID,
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit user change", slog.Any("error", err))
	}
}

var _ authz.ProfileSource = (*Service)(nil)
