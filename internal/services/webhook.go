package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"video-upscaler-backend/internal/events"
	"video-upscaler-backend/internal/jobstore"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/retry"
)

// WebhookService validates upstream job callbacks and writes them into the
// Job Store.
type WebhookService struct {
	jobs      jobstore.Store
	publisher events.Publisher
	policy    retry.Policy
	logger    *slog.Logger
	now       func() time.Time
}

func NewWebhookService(jobs jobstore.Store, publisher events.Publisher, policy retry.Policy, logger *slog.Logger) *WebhookService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &WebhookService{
		jobs:      jobs,
		publisher: publisher,
		policy:    policy,
		logger:    logger.With("component", "webhook"),
		now:       time.Now,
	}
}

// Apply stores a webhook delivery. Invalid payloads are rejected before any
// store access. Store writes are retried per the configured policy; when all
// attempts fail the StoreError is returned and the upstream is expected to
// redeliver.
func (s *WebhookService) Apply(ctx context.Context, payload models.WebhookPayload) (models.JobRecord, error) {
	if payload.ID == "" {
		return models.JobRecord{}, &models.InvalidPayloadError{Reason: "missing id"}
	}
	if !payload.Status.WebhookAccepts() {
		return models.JobRecord{}, &models.InvalidPayloadError{Reason: "unrecognized status " + strconv.Quote(string(payload.Status))}
	}

	rec := Normalize(payload)

	var applied bool
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		var err error
		applied, err = s.jobs.Upsert(ctx, rec)
		return err
	}, func(attempt int, err error) {
		s.logger.Warn("job store write failed, retrying",
			"job_id", rec.ID,
			"attempt", attempt,
			"max_attempts", s.policy.Attempts,
			"error", err,
		)
	})
	if err != nil {
		s.logger.Error("job store write failed", "job_id", rec.ID, "status", rec.Status, "error", err)
		return models.JobRecord{}, &models.StoreError{Store: "redis", Op: "webhook upsert", Err: err}
	}

	if !applied {
		s.logger.Info("stale webhook delivery ignored", "job_id", rec.ID, "status", rec.Status)
		return rec, nil
	}

	s.logger.Info("job record stored", "job_id", rec.ID, "status", rec.Status)

	if err := s.publisher.PublishJobEvent(ctx, events.NewJobEvent(rec, s.now())); err != nil {
		s.logger.Warn("failed to publish job event", "job_id", rec.ID, "error", err)
	}
	return rec, nil
}

// Normalize maps an upstream payload onto a Job Record. Absent fields become
// empty strings so they never fail a write.
func Normalize(payload models.WebhookPayload) models.JobRecord {
	rec := models.JobRecord{
		ID:           payload.ID,
		Status:       payload.Status,
		Output:       serializeOutput(payload.Output),
		Model:        payload.Input.Model,
		Resolution:   payload.Input.Resolution,
		OriginalFile: payload.Input.VideoPath,
		CreatedAt:    payload.CreatedAt,
	}
	if payload.CompletedAt != nil {
		rec.CompletedAt = *payload.CompletedAt
	}
	if payload.Metrics != nil && payload.Metrics.PredictTime != nil {
		rec.PredictTime = strconv.FormatFloat(*payload.Metrics.PredictTime, 'f', -1, 64)
	}
	return rec
}

// serializeOutput keeps the output as JSON text. A JSON string is unwrapped
// so already-serialized outputs are not encoded twice.
func serializeOutput(raw models.RawOutput) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
