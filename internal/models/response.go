package models

type ErrorResponse struct {
	Error         string   `json:"error"`
	Message       string   `json:"message,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

type SubmitResponse struct {
	Success bool      `json:"success"`
	ID      string    `json:"id"`
	Status  JobStatus `json:"status"`
}

type CancelResponse struct {
	Success bool          `json:"success"`
	Data    CancelOutcome `json:"data"`
}

type CancelOutcome struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type WebhookResponse struct {
	Success bool `json:"success"`
}

type MediaUploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type HistoryWriteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type HistoryListResponse struct {
	Message string         `json:"message"`
	Data    []HistoryEntry `json:"data"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}
