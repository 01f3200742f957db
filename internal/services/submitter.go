package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"video-upscaler-backend/internal/cdn"
	"video-upscaler-backend/internal/jobstore"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/predictor"
)

// Submitter uploads the source video to the CDN and registers an upscaling
// job with the AI service. The two calls share no transaction.
type Submitter struct {
	uploader   cdn.Uploader
	predictor  predictor.Predictor
	jobs       jobstore.Store
	webhookURL string
	logger     *slog.Logger
	now        func() time.Time
}

func NewSubmitter(uploader cdn.Uploader, p predictor.Predictor, jobs jobstore.Store, webhookURL string, logger *slog.Logger) *Submitter {
	return &Submitter{
		uploader:   uploader,
		predictor:  p,
		jobs:       jobs,
		webhookURL: webhookURL,
		logger:     logger.With("component", "submitter"),
		now:        time.Now,
	}
}

type SubmitResult struct {
	ID       string
	Status   models.JobStatus
	VideoURL string
}

func (s *Submitter) Submit(ctx context.Context, req models.SubmitRequest) (*SubmitResult, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	asset, err := s.uploader.Upload(ctx, req.VideoURL, models.AssetOriginal)
	if err != nil {
		s.logger.Error("source upload failed", "video_url", req.VideoURL, "error", err)
		return nil, err
	}

	prediction, err := s.predictor.Create(ctx, predictor.CreateRequest{
		VideoURL:   asset.URL,
		Model:      req.Model,
		Resolution: req.Resolution,
		WebhookURL: s.webhookURL,
	})
	if err != nil {
		s.logger.Warn("job registration failed, uploaded asset is orphaned",
			"orphan", true,
			"public_id", asset.PublicID,
			"cdn_url", asset.URL,
			"error", err,
		)
		return nil, err
	}

	// Seed the record so the job is resolvable before the first webhook.
	seed := models.JobRecord{
		ID:           prediction.ID,
		Status:       models.JobStatusQueued,
		Model:        req.Model,
		Resolution:   req.Resolution,
		OriginalFile: asset.URL,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if _, err := s.jobs.Upsert(ctx, seed); err != nil {
		s.logger.Warn("failed to seed job record", "job_id", prediction.ID, "error", err)
	}

	s.logger.Info("job submitted",
		"job_id", prediction.ID,
		"status", prediction.Status,
		"model", req.Model,
		"resolution", req.Resolution,
	)

	return &SubmitResult{ID: prediction.ID, Status: prediction.Status, VideoURL: asset.URL}, nil
}

func validateSubmit(req models.SubmitRequest) error {
	var missing []string
	if strings.TrimSpace(req.VideoURL) == "" {
		missing = append(missing, "videoUrl")
	}
	if strings.TrimSpace(req.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(req.Resolution) == "" {
		missing = append(missing, "resolution")
	}
	if len(missing) > 0 {
		return models.NewValidationError("Video URL, resolution, and model are required", missing...)
	}
	return nil
}
