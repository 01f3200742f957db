package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"video-upscaler-backend/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedAPI answers status queries from a script; the last step repeats.
type scriptedAPI struct {
	mu        sync.Mutex
	steps     []statusStep
	queries   int
	submitID  string
	submitErr error

	uploads    []string
	uploadErr  error
	history    []models.HistoryWriteRequest
	historyErr error
	onHistory  func()
	canceled   []string
}

type statusStep struct {
	rec models.JobRecord
	err error
}

var errTransport = errors.New("connection refused")

func (a *scriptedAPI) Submit(_ context.Context, req models.SubmitRequest) (*models.SubmitResponse, error) {
	if a.submitErr != nil {
		return nil, a.submitErr
	}
	id := a.submitID
	if id == "" {
		id = "job-1"
	}
	return &models.SubmitResponse{Success: true, ID: id, Status: models.JobStatusStarting}, nil
}

func (a *scriptedAPI) Status(_ context.Context, id string) (models.JobRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.queries
	if i >= len(a.steps) {
		i = len(a.steps) - 1
	}
	a.queries++
	step := a.steps[i]
	if step.err != nil {
		return models.JobRecord{}, step.err
	}
	rec := step.rec
	rec.ID = id
	return rec, nil
}

func (a *scriptedAPI) Queries() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries
}

func (a *scriptedAPI) UploadMedia(_ context.Context, videoURL string, kind models.AssetKind) (*models.MediaUploadResponse, error) {
	if a.uploadErr != nil {
		return nil, a.uploadErr
	}
	a.uploads = append(a.uploads, videoURL)
	return &models.MediaUploadResponse{URL: "https://cdn/enhanced_videos/out.mp4", PublicID: "enhanced_videos/out"}, nil
}

func (a *scriptedAPI) RecordHistory(_ context.Context, req models.HistoryWriteRequest) (*models.HistoryWriteResponse, error) {
	if a.onHistory != nil {
		a.onHistory()
	}
	if a.historyErr != nil {
		return nil, a.historyErr
	}
	a.history = append(a.history, req)
	return &models.HistoryWriteResponse{Success: true, ID: "hist-1"}, nil
}

func (a *scriptedAPI) Cancel(_ context.Context, id string) (*models.CancelResponse, error) {
	a.canceled = append(a.canceled, id)
	return &models.CancelResponse{Success: true, Data: models.CancelOutcome{ID: id, Status: "canceled"}}, nil
}

func status(s models.JobStatus) statusStep {
	return statusStep{rec: models.JobRecord{Status: s}}
}

func succeededRecord() models.JobRecord {
	return models.JobRecord{
		Status:       models.JobStatusSucceeded,
		Output:       `["https://replicate.delivery/out.mp4"]`,
		Model:        "RealESRGAN_x4plus",
		Resolution:   "FHD",
		OriginalFile: "https://cdn/original_videos/a.mp4",
		CreatedAt:    "2024-01-01T00:00:00Z",
		CompletedAt:  "2024-01-01T00:05:00Z",
		PredictTime:  "300",
	}
}

func failedRecord() models.JobRecord {
	rec := succeededRecord()
	rec.Status = models.JobStatusFailed
	return rec
}
