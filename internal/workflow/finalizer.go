package workflow

import (
	"context"
	"log/slog"

	"video-upscaler-backend/internal/models"
)

type MediaUploader interface {
	UploadMedia(ctx context.Context, videoURL string, kind models.AssetKind) (*models.MediaUploadResponse, error)
}

type HistoryWriter interface {
	RecordHistory(ctx context.Context, req models.HistoryWriteRequest) (*models.HistoryWriteResponse, error)
}

// Finalizer turns a terminal job record into a history entry. The session
// state is updated before anything is persisted.
type Finalizer struct {
	media   MediaUploader
	history HistoryWriter
	logger  *slog.Logger
}

func NewFinalizer(media MediaUploader, history HistoryWriter, logger *slog.Logger) *Finalizer {
	return &Finalizer{media: media, history: history, logger: logger.With("component", "finalizer")}
}

// Succeeded re-uploads the produced artifact under the enhanced folder and
// records a succeeded history entry.
func (f *Finalizer) Succeeded(ctx context.Context, sess *Session, rec models.JobRecord) (string, error) {
	if err := sess.Transition(StateSucceeded); err != nil {
		return "", err
	}

	artifact, ok := rec.ArtifactURL()
	missing := missingFields(rec)
	if !ok {
		missing = append([]string{"output"}, missing...)
	}
	if len(missing) > 0 {
		return "", &models.IncompleteRecordError{JobID: rec.ID, Missing: missing}
	}

	uploaded, err := f.media.UploadMedia(ctx, artifact, models.AssetEnhanced)
	if err != nil {
		f.logger.Error("enhanced upload failed", "job_id", rec.ID, "artifact", artifact, "error", err)
		return "", err
	}
	sess.setEnhancedURL(uploaded.URL)

	enhanced := uploaded.URL
	resp, err := f.history.RecordHistory(ctx, models.HistoryWriteRequest{
		OriginalVideoURL: rec.OriginalFile,
		EnhancedVideoURL: &enhanced,
		Status:           models.JobStatusSucceeded,
		CreatedAt:        rec.CreatedAt,
		EndedAt:          rec.CompletedAt,
		Model:            rec.Model,
		Resolution:       rec.Resolution,
		PredictTime:      rec.PredictSeconds(),
	})
	if err != nil {
		f.logger.Warn("history write failed, enhanced asset is orphaned",
			"orphan", true,
			"job_id", rec.ID,
			"public_id", uploaded.PublicID,
			"cdn_url", uploaded.URL,
			"error", err,
		)
		return "", err
	}

	f.logger.Info("job finalized", "job_id", rec.ID, "status", models.JobStatusSucceeded, "history_id", resp.ID)
	return resp.ID, nil
}

// Failed records a failed history entry without an enhanced URL and clears
// the session's job id.
func (f *Finalizer) Failed(ctx context.Context, sess *Session, rec models.JobRecord) (string, error) {
	if err := sess.Transition(StateFailed); err != nil {
		return "", err
	}
	sess.setJob("")

	if rec.OriginalFile == "" {
		rec.OriginalFile = sess.Source().VideoURL
	}
	if missing := missingFields(rec); len(missing) > 0 {
		return "", &models.IncompleteRecordError{JobID: rec.ID, Missing: missing}
	}

	resp, err := f.history.RecordHistory(ctx, models.HistoryWriteRequest{
		OriginalVideoURL: rec.OriginalFile,
		EnhancedVideoURL: nil,
		Status:           models.JobStatusFailed,
		CreatedAt:        rec.CreatedAt,
		EndedAt:          rec.CompletedAt,
		Model:            rec.Model,
		Resolution:       rec.Resolution,
		PredictTime:      rec.PredictSeconds(),
	})
	if err != nil {
		f.logger.Error("failed to record failed job", "job_id", rec.ID, "error", err)
		return "", err
	}

	f.logger.Info("job finalized", "job_id", rec.ID, "status", models.JobStatusFailed, "history_id", resp.ID)
	return resp.ID, nil
}

func missingFields(rec models.JobRecord) []string {
	var missing []string
	if rec.OriginalFile == "" {
		missing = append(missing, "original_file")
	}
	if rec.CreatedAt == "" {
		missing = append(missing, "created_at")
	}
	if rec.CompletedAt == "" {
		missing = append(missing, "completed_at")
	}
	return missing
}
