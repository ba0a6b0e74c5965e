package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/haven-pm/haven-pm/internal/shared"
)

// ErrUnknownCode rejects toggles on codes outside the catalog. Resolution
// of unknown codes is a silent deny, but writing a rule for one is a
// caller bug.
var ErrUnknownCode = errors.New("authz: unknown permission code")

// Service loads permission tables, builds Rulesets and executes toggles.
type Service struct {
	repo   RepositoryPort
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Ruleset loads both permission tables and indexes them. Callers hold the
// result for the duration of a request; resolution itself never touches
// the database.
func (s *Service) Ruleset(ctx context.Context) (*Ruleset, error) {
	defaults, err := s.repo.ListRoleDefaults(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.ListUserOverrides(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRuleset(defaults, overrides), nil
}

// MatrixCell is one row of the per-user permission matrix.
type MatrixCell struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Allowed     bool   `json:"allowed"`
	Source      Source `json:"source"`
}

// Matrix resolves every catalog code for the target user.
func (s *Service) Matrix(ctx context.Context, userID, role string) ([]MatrixCell, error) {
	rs, err := s.Ruleset(ctx)
	if err != nil {
		return nil, err
	}
	perms := Catalog()
	cells := make([]MatrixCell, 0, len(perms))
	for _, perm := range perms {
		d := rs.Resolve(userID, role, perm.Code)
		cells = append(cells, MatrixCell{
			Code:        perm.Code,
			Description: perm.Description,
			Allowed:     d.Allowed,
			Source:      d.Source,
		})
	}
	return cells, nil
}

// Toggle flips the permission cell (userID, code) whose displayed effective
// value is current, persisting either a new override row or a flip of the
// existing one. A failed write changes nothing; the caller's ruleset stays
// valid.
func (s *Service) Toggle(ctx context.Context, actorID, userID, code string, current bool) (UserOverride, error) {
	if !KnownCode(code) {
		return UserOverride{}, ErrUnknownCode
	}
	rs, err := s.Ruleset(ctx)
	if err != nil {
		return UserOverride{}, err
	}
	intent := rs.Toggle(userID, code, current)

	if intent.Insert {
		err = s.repo.InsertOverride(ctx, intent.Override)
	} else {
		err = s.repo.UpdateOverride(ctx, intent.Override)
	}
	if err != nil {
		return UserOverride{}, err
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "permissions.toggle",
			Entity:   "user_permission",
			EntityID: userID + ":" + code,
			Meta:     map[string]any{"allowed": intent.Override.Allowed, "inserted": intent.Insert},
		}); err != nil && s.logger != nil {
			s.logger.Warn("audit permission toggle", slog.Any("error", err))
		}
	}
	return intent.Override, nil
}

// RoleDefaults lists every role default row for the matrix UI.
func (s *Service) RoleDefaults(ctx context.Context) ([]RoleDefault, error) {
	return s.repo.ListRoleDefaults(ctx)
}
