package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/haven-pm/haven-pm/internal/jobs"
	"github.com/haven-pm/haven-pm/internal/properties"
)

// GeoBackfillJob geocodes properties that are still missing coordinates.
type GeoBackfillJob struct {
	Properties *properties.Service
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewGeoBackfillJob initialises the backfill handler.
func NewGeoBackfillJob(svc *properties.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *GeoBackfillJob {
	return &GeoBackfillJob{Properties: svc, Logger: logger, Metrics: metrics}
}

// Handle executes one backfill pass.
func (j *GeoBackfillJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("geo backfill: handler not configured")
	}
	var payload GeoBackfillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = 50
	}

	tracker := j.Metrics.Track(TaskGeoBackfill)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	filled, err := j.Properties.BackfillCoordinates(ctx, payload.Limit)
	if err != nil {
		resultErr = err
		return resultErr
	}
	j.Logger.Info("geo backfill finished", slog.Int("filled", filled), slog.Int("limit", payload.Limit))
	return nil
}
