// Package cdn uploads source and result videos to the media CDN.
package cdn

import (
	"context"

	"video-upscaler-backend/internal/models"
)

// Uploader copies a remote video into the CDN. Originals and enhanced
// results live in separate folders and get different transcoding presets.
type Uploader interface {
	Upload(ctx context.Context, sourceURL string, kind models.AssetKind) (*Asset, error)
}

type Asset struct {
	// URL is the durable URL to hand out. For originals this is the eager
	// derivative when the CDN produced one.
	URL      string
	PublicID string
}

// Folder maps an asset kind to its CDN folder.
func Folder(kind models.AssetKind) string {
	if kind == models.AssetOriginal {
		return "original_videos"
	}
	return "enhanced_videos"
}
