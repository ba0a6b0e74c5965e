package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAppointmentReminder is the task type for appointment reminders.
	TaskAppointmentReminder = "appt:reminder"
	// TaskGeoBackfill is the task type for the coordinate backfill scan.
	TaskGeoBackfill = "geo:backfill"
)

// AppointmentReminderPayload identifies the appointment to remind about.
type AppointmentReminderPayload struct {
	AppointmentID int64 `json:"appointment_id"`
}

// NewAppointmentReminderTask constructs an Asynq task.
func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

// GeoBackfillPayload bounds one backfill run.
type GeoBackfillPayload struct {
	Limit int `json:"limit"`
}

// NewGeoBackfillTask constructs an Asynq task.
func NewGeoBackfillTask(payload GeoBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGeoBackfill, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueueAppointmentReminder schedules a reminder task to fire at remindAt.
// A remind time already in the past enqueues for immediate processing.
func (c *Client) EnqueueAppointmentReminder(ctx context.Context, appointmentID int64, remindAt time.Time) error {
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{AppointmentID: appointmentID})
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault)}
	if remindAt.After(time.Now()) {
		opts = append(opts, asynq.ProcessAt(remindAt))
	}
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
