// Package history persists one immutable entry per terminal job outcome.
package history

import (
	"context"

	"video-upscaler-backend/internal/models"
)

// Store is the durable history store. Entries are never mutated or deleted
// by this service.
type Store interface {
	Insert(ctx context.Context, entry models.HistoryEntry) (string, error)
	// ListByUser returns at most limit entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
