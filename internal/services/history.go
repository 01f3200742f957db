package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"video-upscaler-backend/internal/history"
	"video-upscaler-backend/internal/models"
)

type HistoryService struct {
	store  history.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewHistoryService(store history.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger.With("component", "history"), now: time.Now}
}

// Record validates and writes one History Entry for userID.
func (s *HistoryService) Record(ctx context.Context, userID string, req models.HistoryWriteRequest) (string, error) {
	if userID == "" {
		return "", &models.AuthError{Reason: "user not authenticated"}
	}

	entry, err := s.buildEntry(userID, req)
	if err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		s.logger.Error("failed to store history entry", "user_id", userID, "error", err)
		return "", err
	}

	s.logger.Info("history entry stored", "id", id, "user_id", userID, "status", entry.Status)
	return id, nil
}

func (s *HistoryService) buildEntry(userID string, req models.HistoryWriteRequest) (models.HistoryEntry, error) {
	var missing []string
	if req.OriginalVideoURL == "" {
		missing = append(missing, "original_video_url")
	}
	if req.Status == "" {
		missing = append(missing, "status")
	}
	if req.CreatedAt == "" {
		missing = append(missing, "created_at")
	}
	if req.Model == "" {
		missing = append(missing, "model")
	}
	if req.Resolution == "" {
		missing = append(missing, "resolution")
	}
	if len(missing) > 0 {
		return models.HistoryEntry{}, models.NewValidationError("Missing required fields", missing...)
	}

	if !strings.HasPrefix(req.OriginalVideoURL, "http") {
		return models.HistoryEntry{}, models.NewValidationError("Invalid original_video_url format")
	}
	if req.EnhancedVideoURL != nil && !strings.HasPrefix(*req.EnhancedVideoURL, "http") {
		return models.HistoryEntry{}, models.NewValidationError("Invalid enhanced_video_url format")
	}
	if !req.Status.IsTerminal() {
		return models.HistoryEntry{}, models.NewValidationError("Invalid status value")
	}
	if req.Status == models.JobStatusSucceeded && req.EnhancedVideoURL == nil {
		return models.HistoryEntry{}, models.NewValidationError("enhanced_video_url is required when status is succeeded")
	}
	if req.Status == models.JobStatusFailed && req.EnhancedVideoURL != nil {
		return models.HistoryEntry{}, models.NewValidationError("enhanced_video_url must be null when status is failed")
	}

	createdAt, err := models.ParseTimestamp(req.CreatedAt)
	if err != nil {
		return models.HistoryEntry{}, models.NewValidationError("Invalid created_at format")
	}

	var endedAt *time.Time
	if req.EndedAt != "" {
		t, err := models.ParseTimestamp(req.EndedAt)
		if err != nil {
			return models.HistoryEntry{}, models.NewValidationError("Invalid ended_at format")
		}
		endedAt = &t
	}

	return models.HistoryEntry{
		UserID:           userID,
		OriginalVideoURL: req.OriginalVideoURL,
		EnhancedVideoURL: req.EnhancedVideoURL,
		Status:           req.Status,
		CreatedAt:        createdAt,
		EndedAt:          endedAt,
		Model:            req.Model,
		Resolution:       req.Resolution,
		PredictTime:      req.PredictTime,
		UpdatedAt:        s.now().UTC(),
	}, nil
}

// List returns the user's most recent entries, newest first.
func (s *HistoryService) List(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	if userID == "" {
		return nil, &models.AuthError{Reason: "user not authenticated"}
	}

	entries, err := s.store.ListByUser(ctx, userID, models.HistoryLimit)
	if err != nil {
		s.logger.Error("failed to list history", "user_id", userID, "error", err)
		return nil, err
	}

	now := s.now().UTC()
	for i := range entries {
		if entries[i].Status == "" {
			entries[i].Status = models.JobStatusUnknown
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		if entries[i].UpdatedAt.IsZero() {
			entries[i].UpdatedAt = now
		}
	}

	s.logger.Info("history retrieved", "user_id", userID, "count", len(entries))
	return entries, nil
}
