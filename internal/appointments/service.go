package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haven-pm/haven-pm/internal/authz"
	"github.com/haven-pm/haven-pm/internal/platform/httpx"
)

// RepositoryPort defines data access methods for appointments.
type RepositoryPort interface {
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id int64) (Appointment, error)
	Create(ctx context.Context, a Appointment) (Appointment, error)
	Update(ctx context.Context, a Appointment) (Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// ReminderEnqueuer schedules a reminder task for an appointment.
type ReminderEnqueuer interface {
	EnqueueAppointmentReminder(ctx context.Context, appointmentID int64, remindAt time.Time) error
}

// Service handles appointment business logic.
type Service struct {
	repo      RepositoryPort
	reminders ReminderEnqueuer
	logger    *slog.Logger
}

// NewService builds Service instance. reminders may be nil when no
// background worker is configured.
func NewService(repo RepositoryPort, reminders ReminderEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, reminders: reminders, logger: logger}
}

// List loads all appointments and narrows them to what the caller may see.
func (s *Service) List(ctx context.Context, access *authz.Access) ([]Appointment, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ApplyVisibility(access.Ruleset, access.Principal, authz.ResourceAppointments, appointments, Appointment.Owner), nil
}

// Get fetches a single appointment.
func (s *Service) Get(ctx context.Context, id int64) (Appointment, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput carries validated intake fields.
type CreateInput struct {
	Title       string
	WithWhom    string
	Location    string
	ScheduledAt time.Time
	Notes       string
	AssignedTo  *string
}

// Create records an appointment and schedules a reminder one hour before
// it starts. A failed enqueue is logged, not returned: the appointment row
// is already committed.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Appointment{}, fmt.Errorf("title required: %w", httpx.ErrValidation)
	}
	if in.ScheduledAt.IsZero() {
		return Appointment{}, fmt.Errorf("scheduled time required: %w", httpx.ErrValidation)
	}
	appt, err := s.repo.Create(ctx, Appointment{
		Title:       in.Title,
		WithWhom:    strings.TrimSpace(in.WithWhom),
		Location:    strings.TrimSpace(in.Location),
		ScheduledAt: in.ScheduledAt,
		Notes:       strings.TrimSpace(in.Notes),
		AssignedTo:  in.AssignedTo,
	})
	if err != nil {
		return Appointment{}, err
	}
	if s.reminders != nil {
		remindAt := appt.ScheduledAt.Add(-time.Hour)
		if err := s.reminders.EnqueueAppointmentReminder(ctx, appt.ID, remindAt); err != nil {
			s.logger.Error("enqueue appointment reminder",
				slog.Int64("appointment_id", appt.ID), slog.Any("error", err))
		}
	}
	return appt, nil
}

// UpdateInput carries mutable fields; nil pointers leave values unchanged.
type UpdateInput struct {
	Title       *string
	WithWhom    *string
	Location    *string
	ScheduledAt *time.Time
	Notes       *string
	AssignedTo  *string
}

// Update applies partial changes to an appointment.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Appointment{}, fmt.Errorf("title required: %w", httpx.ErrValidation)
		}
		appt.Title = title
	}
	if in.WithWhom != nil {
		appt.WithWhom = strings.TrimSpace(*in.WithWhom)
	}
	if in.Location != nil {
		appt.Location = strings.TrimSpace(*in.Location)
	}
	if in.ScheduledAt != nil {
		appt.ScheduledAt = *in.ScheduledAt
	}
	if in.Notes != nil {
		appt.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.AssignedTo != nil {
		appt.AssignedTo = in.AssignedTo
	}
	return s.repo.Update(ctx, appt)
}

// Delete removes an appointment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
