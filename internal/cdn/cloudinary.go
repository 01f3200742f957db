package cdn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"video-upscaler-backend/internal/models"
)

const (
	originalVideoCodec = "h264:main"
	// Eager derivative generated for originals: good automatic quality,
	// h264 main profile, 3s keyframe spacing, automatic bitrate.
	originalEager = "q_auto:good/vc_h264:main/vs_3/br_auto"
	// Enhanced results keep their quality; scale only.
	enhancedTransformation = "c_scale,q_auto:best"
)

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// UploadParams builds the upload options for an asset kind.
func UploadParams(kind models.AssetKind) uploader.UploadParams {
	params := uploader.UploadParams{
		ResourceType:    "video",
		Folder:          Folder(kind),
		QualityAnalysis: api.Bool(true),
	}

	switch kind {
	case models.AssetOriginal:
		params.Eager = originalEager + "/f_mp4"
		params.EagerAsync = api.Bool(true)
		params.Transformation = "vc_" + originalVideoCodec + ",ac_aac,af_44100,abr_128k"
	case models.AssetEnhanced:
		params.Transformation = enhancedTransformation
	}

	return params
}

func (u *CloudinaryUploader) Upload(ctx context.Context, sourceURL string, kind models.AssetKind) (*Asset, error) {
	result, err := u.cld.Upload.Upload(ctx, sourceURL, UploadParams(kind))
	if err != nil {
		return nil, &models.UpstreamError{Service: "cloudinary", Op: "upload", Err: err}
	}
	if result.Error.Message != "" {
		return nil, &models.UpstreamError{Service: "cloudinary", Op: "upload", Err: errors.New(result.Error.Message)}
	}

	url := result.SecureURL
	if kind == models.AssetOriginal {
		for _, eager := range result.Eager {
			if eager.SecureURL != "" {
				url = eager.SecureURL
				break
			}
		}
	}
	if !strings.HasPrefix(url, "http") {
		return nil, &models.UpstreamError{Service: "cloudinary", Op: "upload", Err: fmt.Errorf("no url in upload result for %s", sourceURL)}
	}

	return &Asset{URL: url, PublicID: result.PublicID}, nil
}
