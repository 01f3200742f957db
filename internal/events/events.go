// Package events publishes job lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"video-upscaler-backend/internal/models"
)

type Publisher interface {
	PublishJobEvent(ctx context.Context, event JobEvent) error
	Close() error
}

// JobEvent is emitted after the Job Store accepted a webhook delivery.
type JobEvent struct {
	Type       string           `json:"type"`
	JobID      string           `json:"job_id"`
	Status     models.JobStatus `json:"status"`
	Record     models.JobRecord `json:"record"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// RoutingKey is prediction.<status>.
func RoutingKey(status models.JobStatus) string {
	return "prediction." + string(status)
}

func NewJobEvent(rec models.JobRecord, now time.Time) JobEvent {
	return JobEvent{
		Type:       RoutingKey(rec.Status),
		JobID:      rec.ID,
		Status:     rec.Status,
		Record:     rec,
		OccurredAt: now.UTC(),
	}
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishJobEvent(context.Context, JobEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
