package tenants

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// RepositoryPort defines data access methods for tenants and move events.
type RepositoryPort interface {
	List(ctx context.Context) ([]Tenant, error)
	Get(ctx context.Context, id int64) (Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	Update(ctx context.Context, t Tenant) (Tenant, error)
	Delete(ctx context.Context, id int64) error

	ListMoveEvents(ctx context.Context, tenantID int64) ([]MoveEvent, error)
	GetMoveEvent(ctx context.Context, id int64) (MoveEvent, error)
	CreateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error)
	UpdateMoveEvent(ctx context.Context, e MoveEvent) (MoveEvent, error)
}

// UnitOccupancySetter flips the occupied flag on a unit. Satisfied by the
// properties repository.
type UnitOccupancySetter interface {
	SetUnitOccupied(ctx context.Context, id int64, occupied bool) error
}

// Service handles tenant business logic.
type Service struct {
	repo   RepositoryPort
	units  UnitOccupancySetter
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, units UnitOccupancySetter, logger *slog.Logger) *Service {
	return &Service{repo: repo, units: units, logger: logger}
}

// List returns all tenants.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.repo.List(ctx)
}

// Get fetches a single tenant.
func (s *Service) Get(ctx context.Context, id int64) (Tenant, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	Name  string
	Email string
	Phone string
}

// Create records a new tenant without a unit.
func (s *Service) Create(ctx context.Context, in CreateInput) (Tenant, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Tenant{}, fmt.Errorf("name required: %w", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, Tenant{
		Name:  in.Name,
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Phone: strings.TrimSpace(in.Phone),
	})
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	Name  *string
	Email *string
	Phone *string
}

// Update applies partial changes to a tenant.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Tenant, error) {
	tenant, err := s.repo.Get(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Tenant{}, fmt.Errorf("name required: %w", httpx.ErrValidation)
		}
		tenant.Name = name
	}
	if in.Email != nil {
		tenant.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		tenant.Phone = strings.TrimSpace(*in.Phone)
	}
	return s.repo.Update(ctx, tenant)
}

// Delete removes a tenant.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListMoveEvents returns the move history of a tenant.
func (s *Service) ListMoveEvents(ctx context.Context, tenantID int64) ([]MoveEvent, error) {
	return s.repo.ListMoveEvents(ctx, tenantID)
}

// MoveEventInput carries intake fields for scheduling a move.
type MoveEventInput struct {
	UnitID      int64
	Kind        string
	ScheduledAt time.Time
	Checklist   string
}

// ScheduleMove records a pending move-in or move-out.
func (s *Service) ScheduleMove(ctx context.Context, tenantID int64, in MoveEventInput) (MoveEvent, error) {
	if !validKind(in.Kind) {
		return MoveEvent{}, fmt.Errorf("unknown move kind %q: %w", in.Kind, httpx.ErrValidation)
	}
	if in.ScheduledAt.IsZero() {
		return MoveEvent{}, fmt.Errorf("scheduled time required: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.Get(ctx, tenantID); err != nil {
		return MoveEvent{}, err
	}
	return s.repo.CreateMoveEvent(ctx, MoveEvent{
		TenantID:    tenantID,
		UnitID:      in.UnitID,
		Kind:        in.Kind,
		ScheduledAt: in.ScheduledAt,
		Checklist:   strings.TrimSpace(in.Checklist),
	})
}

// CompleteMove marks a move event done. Completing a move-in puts the
// tenant into the unit and marks it occupied; completing a move-out clears
// both. Completing twice is rejected.
func (s *Service) CompleteMove(ctx context.Context, eventID int64) (MoveEvent, error) {
	event, err := s.repo.GetMoveEvent(ctx, eventID)
	if err != nil {
		return MoveEvent{}, err
	}
	if event.CompletedAt != nil {
		return MoveEvent{}, fmt.Errorf("move already completed: %w", httpx.ErrValidation)
	}
	tenant, err := s.repo.Get(ctx, event.TenantID)
	if err != nil {
		return MoveEvent{}, err
	}

	now := time.Now().UTC()
	event.CompletedAt = &now
	event, err = s.repo.UpdateMoveEvent(ctx, event)
	if err != nil {
		return MoveEvent{}, err
	}

	occupied := event.Kind == MoveIn
	if occupied {
		tenant.UnitID = &event.UnitID
	} else {
		tenant.UnitID = nil
	}
	if _, err := s.repo.Update(ctx, tenant); err != nil {
		return MoveEvent{}, err
	}
	if err := s.units.SetUnitOccupied(ctx, event.UnitID, occupied); err != nil {
		return MoveEvent{}, err
	}
	return event, nil
}
