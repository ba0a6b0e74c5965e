package courtdates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// RepositoryPort defines data access methods for court dates.
type RepositoryPort interface {
	List(ctx context.Context) ([]CourtDate, error)
	Get(ctx context.Context, id int64) (CourtDate, error)
	Create(ctx context.Context, c CourtDate) (CourtDate, error)
	Update(ctx context.Context, c CourtDate) (CourtDate, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles court date business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List loads all court dates and narrows them to what the caller may see.
func (s *Service) List(ctx context.Context, access *authz.Access) ([]CourtDate, error) {
	dates, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ApplyVisibility(access.Ruleset, access.Principal, authz.ResourceCourtDates, dates, CourtDate.Owner), nil
}

// Get fetches a single court date.
func (s *Service) Get(ctx context.Context, id int64) (CourtDate, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	PropertyID int64
	TenantID   *int64
	CaseNumber string
	Courtroom  string
	HearingAt  time.Time
	AssignedTo *string
}

// Create records a new court date with a pending outcome.
func (s *Service) Create(ctx context.Context, in CreateInput) (CourtDate, error) {
	in.CaseNumber = strings.TrimSpace(in.CaseNumber)
	if in.CaseNumber == "" {
		return CourtDate{}, fmt.Errorf("case number required: %w", httpx.ErrValidation)
	}
	if in.HearingAt.IsZero() {
		return CourtDate{}, fmt.Errorf("hearing time required: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, CourtDate{
		PropertyID: in.PropertyID,
		TenantID:   in.TenantID,
		CaseNumber: in.CaseNumber,
		Courtroom:  strings.TrimSpace(in.Courtroom),
		HearingAt:  in.HearingAt,
		Outcome:    OutcomePending,
		AssignedTo: in.AssignedTo,
	})
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	CaseNumber *string
	Courtroom  *string
	HearingAt  *time.Time
	Outcome    *string
	Notes      *string
	AssignedTo *string
}

// Update applies partial changes to a court date.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (CourtDate, error) {
	date, err := s.repo.Get(ctx, id)
	if err != nil {
		return CourtDate{}, err
	}
	if in.CaseNumber != nil {
		num := strings.TrimSpace(*in.CaseNumber)
		if num == "" {
			return CourtDate{}, fmt.Errorf("case number required: %w", httpx.ErrValidation)
		}
		date.CaseNumber = num
	}
	if in.Courtroom != nil {
		date.Courtroom = strings.TrimSpace(*in.Courtroom)
	}
	if in.HearingAt != nil {
		date.HearingAt = *in.HearingAt
	}
	if in.Outcome != nil {
		if !validOutcome(*in.Outcome) {
			return CourtDate{}, fmt.Errorf("unknown outcome %q: %w", *in.Outcome, httpx.ErrValidation)
		}
		date.Outcome = *in.Outcome
	}
	if in.Notes != nil {
		date.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.AssignedTo != nil {
		date.AssignedTo = in.AssignedTo
	}
	return s.repo.Update(ctx, date)
}

// Delete removes a court date.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
