package showings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// RepositoryPort defines data access methods for showings.
type RepositoryPort interface {
	List(ctx context.Context) ([]Showing, error)
	Get(ctx context.Context, id int64) (Showing, error)
	Create(ctx context.Context, s Showing) (Showing, error)
	Update(ctx context.Context, s Showing) (Showing, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles showing business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List loads all showings and narrows them to what the caller may see.
func (s *Service) List(ctx context.Context, access *authz.Access) ([]Showing, error) {
	showings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ApplyVisibility(access.Ruleset, access.Principal, authz.ResourceShowings, showings, Showing.Owner), nil
}

// Get fetches a single showing.
func (s *Service) Get(ctx context.Context, id int64) (Showing, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	PropertyID   int64
	ProspectName string
	ProspectTel  string
	ScheduledAt  time.Time
	AssignedTo   *string
}

// Create schedules a new showing with a pending outcome.
func (s *Service) Create(ctx context.Context, in CreateInput) (Showing, error) {
	in.ProspectName = strings.TrimSpace(in.ProspectName)
	if in.ProspectName == "" {
		return Showing{}, fmt.Errorf("prospect name required: %w", httpx.ErrValidation)
	}
	if in.ScheduledAt.IsZero() {
		return Showing{}, fmt.Errorf("scheduled time required: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, Showing{
		PropertyID:   in.PropertyID,
		ProspectName: in.ProspectName,
		ProspectTel:  strings.TrimSpace(in.ProspectTel),
		ScheduledAt:  in.ScheduledAt,
		Outcome:      OutcomePending,
		AssignedTo:   in.AssignedTo,
	})
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	ProspectName *string
	ProspectTel  *string
	ScheduledAt  *time.Time
	Outcome      *string
	Notes        *string
	AssignedTo   *string
}

// Update applies partial changes to a showing.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Showing, error) {
	showing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Showing{}, err
	}
	if in.ProspectName != nil {
		name := strings.TrimSpace(*in.ProspectName)
		if name == "" {
			return Showing{}, fmt.Errorf("prospect name required: %w", httpx.ErrValidation)
		}
		showing.ProspectName = name
	}
	if in.ProspectTel != nil {
		showing.ProspectTel = strings.TrimSpace(*in.ProspectTel)
	}
	if in.ScheduledAt != nil {
		showing.ScheduledAt = *in.ScheduledAt
	}
	if in.Outcome != nil {
		if !validOutcome(*in.Outcome) {
			return Showing{}, fmt.Errorf("unknown outcome %q: %w", *in.Outcome, httpx.ErrValidation)
		}
		showing.Outcome = *in.Outcome
	}
	if in.Notes != nil {
		showing.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.AssignedTo != nil {
		showing.AssignedTo = in.AssignedTo
	}
	return s.repo.Update(ctx, showing)
}

// Delete removes a showing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
