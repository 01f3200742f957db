package models

import "time"

type AssetKind string

const (
	AssetOriginal AssetKind = "original"
	AssetEnhanced AssetKind = "enhanced"
)

func (k AssetKind) Valid() bool {
	return k == AssetOriginal || k == AssetEnhanced
}

type SubmitRequest struct {
	VideoURL   string `json:"videoUrl" example:"https://example.com/a.mp4"`
	Model      string `json:"model" example:"RealESRGAN_x4plus"`
	Resolution string `json:"resolution" example:"FHD"`
}

type CancelRequest struct {
	ID string `json:"id"`
}

type MediaUploadRequest struct {
	VideoURL string    `json:"videoUrl"`
	Type     AssetKind `json:"type"`
	// FileSize is advisory; the CDN picks presets by asset kind only.
	FileSize int64 `json:"fileSize,omitempty"`
}

// HistoryWriteRequest is a History Entry minus its id and owner. Timestamps
// arrive as ISO strings from the job record.
type HistoryWriteRequest struct {
	OriginalVideoURL string    `json:"original_video_url"`
	EnhancedVideoURL *string   `json:"enhanced_video_url"`
	Status           JobStatus `json:"status"`
	CreatedAt        string    `json:"created_at"`
	EndedAt          string    `json:"ended_at,omitempty"`
	Model            string    `json:"model"`
	Resolution       string    `json:"resolution"`
	PredictTime      *float64  `json:"predict_time"`
}

// WebhookPayload is the prediction object the upstream AI service posts back.
type WebhookPayload struct {
	ID          string          `json:"id"`
	Status      JobStatus       `json:"status"`
	Output      RawOutput       `json:"output"`
	Input       WebhookInput    `json:"input"`
	CreatedAt   string          `json:"created_at"`
	CompletedAt *string         `json:"completed_at"`
	Metrics     *WebhookMetrics `json:"metrics"`
}

type WebhookInput struct {
	Model      string `json:"model"`
	Resolution string `json:"resolution"`
	VideoPath  string `json:"video_path"`
}

type WebhookMetrics struct {
	PredictTime *float64 `json:"predict_time"`
}

// RawOutput keeps the output field verbatim so it can be stored serialized.
type RawOutput []byte

func (o *RawOutput) UnmarshalJSON(data []byte) error {
	*o = append((*o)[:0], data...)
	return nil
}

func (o RawOutput) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}
	return o, nil
}

// ParseTimestamp accepts the ISO forms the upstream service and clients emit.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}
