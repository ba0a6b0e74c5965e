package workorders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// Service handles work order business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List loads all work orders and narrows them to what the caller may see.
func (s *Service) List(ctx context.Context, access *authz.Access) ([]WorkOrder, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ApplyVisibility(access.Ruleset, access.Principal, authz.ResourceWorkOrders, orders, WorkOrder.Owner), nil
}

// Get fetches a single work order.
func (s *Service) Get(ctx context.Context, id int64) (WorkOrder, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	PropertyID  int64
	UnitID      *int64
	Title       string
	Description string
	Priority    string
	AssignedTo  *string
}

// Create opens a new work order.
func (s *Service) Create(ctx context.Context, in CreateInput) (WorkOrder, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return WorkOrder{}, fmt.Errorf("title required: %w", httpx.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	switch in.Priority {
	case PriorityLow, PriorityNormal, PriorityUrgent:
	default:
		return WorkOrder{}, fmt.Errorf("unknown priority %q: %w", in.Priority, httpx.ErrValidation)
	}
	return s.repo.Create(ctx, WorkOrder{
		PropertyID:  in.PropertyID,
		UnitID:      in.UnitID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Priority:    in.Priority,
		Status:      StatusOpen,
		AssignedTo:  in.AssignedTo,
	})
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	AssignedTo  *string
	ClearAssign bool
}

// Update applies partial changes, enforcing the status machine:
// open -> in_progress -> done, with cancellation from either active state.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (WorkOrder, error) {
	wo, err := s.repo.Get(ctx, id)
	if err != nil {
		return WorkOrder{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return WorkOrder{}, fmt.Errorf("title required: %w", httpx.ErrValidation)
		}
		wo.Title = title
	}
	if in.Description != nil {
		wo.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		switch *in.Priority {
		case PriorityLow, PriorityNormal, PriorityUrgent:
			wo.Priority = *in.Priority
		default:
			return WorkOrder{}, fmt.Errorf("unknown priority %q: %w", *in.Priority, httpx.ErrValidation)
		}
	}
	if in.Status != nil && *in.Status != wo.Status {
		if !transitionAllowed(wo.Status, *in.Status) {
			return WorkOrder{}, fmt.Errorf("cannot move %s work order to %s: %w", wo.Status, *in.Status, httpx.ErrValidation)
		}
		wo.Status = *in.Status
		if wo.Status == StatusDone {
			now := time.Now().UTC()
			wo.CompletedAt = &now
		}
	}
	if in.ClearAssign {
		wo.AssignedTo = nil
	} else if in.AssignedTo != nil {
		wo.AssignedTo = in.AssignedTo
	}
	return s.repo.Update(ctx, wo)
}

// Delete removes a work order.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
