package models

import "time"

// HistoryEntry is the durable record of one terminal job outcome for a user.
// EnhancedVideoURL is set if and only if Status is succeeded.
type HistoryEntry struct {
	ID               string     `json:"_id" bson:"_id,omitempty" db:"id"`
	UserID           string     `json:"user_id" bson:"user_id" db:"user_id"`
	OriginalVideoURL string     `json:"original_video_url" bson:"original_video_url" db:"original_video_url"`
	EnhancedVideoURL *string    `json:"enhanced_video_url" bson:"enhanced_video_url" db:"enhanced_video_url"`
	Status           JobStatus  `json:"status" bson:"status" db:"status"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	EndedAt          *time.Time `json:"ended_at" bson:"ended_at" db:"ended_at"`
	Model            string     `json:"model" bson:"model" db:"model"`
	Resolution       string     `json:"resolution" bson:"resolution" db:"resolution"`
	PredictTime      *float64   `json:"predict_time" bson:"predict_time" db:"predict_time"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// HistoryLimit caps how many entries a history read returns.
const HistoryLimit = 100
