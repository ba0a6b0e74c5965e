package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/haven-pm/haven-pm/internal/appointments"
	jobmetrics "github.com/haven-pm/haven-pm/internal/jobs"
	"github.com/haven-pm/haven-pm/internal/shared"
)

// AppointmentReminderJob fires reminders for upcoming appointments. Delivery
// is a structured log line; a mail or SMS channel can hang off the same hook.
type AppointmentReminderJob struct {
	Appointments *appointments.Service
	Logger       *slog.Logger
	Metrics      *jobmetrics.Metrics
}

// NewAppointmentReminderJob initialises the reminder handler.
func NewAppointmentReminderJob(svc *appointments.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AppointmentReminderJob {
	return &AppointmentReminderJob{Appointments: svc, Logger: logger, Metrics: metrics}
}

// Handle executes the reminder logic.
func (j *AppointmentReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("appointment reminder: handler not configured")
	}
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskAppointmentReminder)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	appt, err := j.Appointments.Get(ctx, payload.AppointmentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Deleted before the reminder fired; nothing to do.
			j.Logger.Info("appointment reminder skipped, appointment gone",
				slog.Int64("appointment_id", payload.AppointmentID))
			return nil
		}
		resultErr = err
		return resultErr
	}

	attrs := []any{
		slog.Int64("appointment_id", appt.ID),
		slog.String("title", appt.Title),
		slog.Time("scheduled_at", appt.ScheduledAt),
	}
	if appt.AssignedTo != nil {
		attrs = append(attrs, slog.String("assigned_to", *appt.AssignedTo))
	}
	j.Logger.Info("appointment reminder", attrs...)
	return nil
}
