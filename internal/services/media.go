package services

import (
	"context"
	"log/slog"
	"strings"

	"video-upscaler-backend/internal/cdn"
	"video-upscaler-backend/internal/models"
)

type MediaService struct {
	uploader cdn.Uploader
	logger   *slog.Logger
}

func NewMediaService(uploader cdn.Uploader, logger *slog.Logger) *MediaService {
	return &MediaService{uploader: uploader, logger: logger.With("component", "media")}
}

func (s *MediaService) Upload(ctx context.Context, req models.MediaUploadRequest) (*cdn.Asset, error) {
	if strings.TrimSpace(req.VideoURL) == "" {
		return nil, models.NewValidationError("Video URL is required", "videoUrl")
	}
	kind := req.Type
	if kind == "" {
		kind = models.AssetEnhanced
	}
	if !kind.Valid() {
		return nil, models.NewValidationError("type must be original or enhanced")
	}

	asset, err := s.uploader.Upload(ctx, req.VideoURL, kind)
	if err != nil {
		s.logger.Error("video upload failed", "video_url", req.VideoURL, "type", kind, "error", err)
		return nil, err
	}

	s.logger.Info("video uploaded", "type", kind, "url", asset.URL, "public_id", asset.PublicID)
	return asset, nil
}
