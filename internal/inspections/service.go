package inspections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// RepositoryPort defines data access methods for inspections.
type RepositoryPort interface {
	List(ctx context.Context) ([]Inspection, error)
	Get(ctx context.Context, id int64) (Inspection, error)
	Create(ctx context.Context, i Inspection) (Inspection, error)
	Update(ctx context.Context, i Inspection) (Inspection, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles inspection business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List loads all inspections and narrows them to what the caller may see.
func (s *Service) List(ctx context.Context, access *authz.Access) ([]Inspection, error) {
	inspections, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ApplyVisibility(access.Ruleset, access.Principal, authz.ResourceInspections, inspections, Inspection.Owner), nil
}

// Get fetches a single inspection.
func (s *Service) Get(ctx context.Context, id int64) (Inspection, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	PropertyID  int64
	UnitID      *int64
	Kind        string
	ScheduledAt time.Time
	AssignedTo  *string
}

// Create schedules a new inspection.
func (s *Service) Create(ctx context.Context, in CreateInput) (Inspection, error) {
	if !validKind(in.Kind) {
		return Inspection{}, fmt.Errorf("unknown inspection kind %q: %w", in.Kind, httpx.ErrValidation)
	}
	if in.ScheduledAt.IsZero() {
		return Inspection{}, fmt.Errorf("scheduled time required: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, Inspection{
		PropertyID:  in.PropertyID,
		UnitID:      in.UnitID,
		Kind:        in.Kind,
		Status:      StatusScheduled,
		ScheduledAt: in.ScheduledAt,
		AssignedTo:  in.AssignedTo,
	})
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	Kind        *string
	Status      *string
	ScheduledAt *time.Time
	Findings    *string
	AssignedTo  *string
}

// Update applies partial changes to an inspection. Marking one completed
// stamps CompletedAt once and keeps the original stamp afterwards.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Inspection, error) {
	inspection, err := s.repo.Get(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	if in.Kind != nil {
		if !validKind(*in.Kind) {
			return Inspection{}, fmt.Errorf("unknown inspection kind %q: %w", *in.Kind, httpx.ErrValidation)
		}
		inspection.Kind = *in.Kind
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return Inspection{}, fmt.Errorf("unknown status %q: %w", *in.Status, httpx.ErrValidation)
		}
		if *in.Status == StatusCompleted && inspection.CompletedAt == nil {
			now := time.Now().UTC()
			inspection.CompletedAt = &now
		}
		inspection.Status = *in.Status
	}
	if in.ScheduledAt != nil {
		inspection.ScheduledAt = *in.ScheduledAt
	}
	if in.Findings != nil {
		inspection.Findings = strings.TrimSpace(*in.Findings)
	}
	if in.AssignedTo != nil {
		inspection.AssignedTo = in.AssignedTo
	}
	return s.repo.Update(ctx, inspection)
}

// Delete removes an inspection.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
