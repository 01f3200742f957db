package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusStarting   JobStatus = "starting"
	JobStatusProcessing JobStatus = "processing"
	JobStatusSucceeded  JobStatus = "succeeded"
	JobStatusFailed     JobStatus = "failed"
	JobStatusUnknown    JobStatus = "unknown"
)

// IsTerminal reports whether no further legitimate transition exists for the job.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Rank orders statuses for out-of-order webhook protection. Terminal
// statuses dominate processing, which dominates queued/starting.
func (s JobStatus) Rank() int {
	switch s {
	case JobStatusSucceeded, JobStatusFailed:
		return 2
	case JobStatusProcessing:
		return 1
	default:
		return 0
	}
}

// WebhookAccepts reports whether a webhook delivery may carry this status.
func (s JobStatus) WebhookAccepts() bool {
	switch s {
	case JobStatusSucceeded, JobStatusProcessing, JobStatusFailed:
		return true
	}
	return false
}

// JobRecord is the latest known state of an enhancement job, stored as a
// flat hash keyed by the upstream prediction id.
type JobRecord struct {
	ID           string    `json:"id,omitempty"`
	Status       JobStatus `json:"status"`
	Output       string    `json:"output,omitempty"`
	Model        string    `json:"model,omitempty"`
	Resolution   string    `json:"resolution,omitempty"`
	OriginalFile string    `json:"original_file,omitempty"`
	CreatedAt    string    `json:"created_at,omitempty"`
	CompletedAt  string    `json:"completed_at,omitempty"`
	PredictTime  string    `json:"predict_time,omitempty"`
}

// Fields flattens the record into hash fields, empty values included.
func (r JobRecord) Fields() map[string]string {
	return map[string]string{
		"status":        string(r.Status),
		"output":        r.Output,
		"model":         r.Model,
		"resolution":    r.Resolution,
		"original_file": r.OriginalFile,
		"created_at":    r.CreatedAt,
		"completed_at":  r.CompletedAt,
		"predict_time":  r.PredictTime,
	}
}

// JobRecordFromFields rebuilds a record from a hash read.
func JobRecordFromFields(id string, fields map[string]string) JobRecord {
	status := JobStatus(fields["status"])
	if status == "" {
		status = JobStatusUnknown
	}
	return JobRecord{
		ID:           id,
		Status:       status,
		Output:       fields["output"],
		Model:        fields["model"],
		Resolution:   fields["resolution"],
		OriginalFile: fields["original_file"],
		CreatedAt:    fields["created_at"],
		CompletedAt:  fields["completed_at"],
		PredictTime:  fields["predict_time"],
	}
}

// PredictSeconds parses the stored predict time, nil when absent or malformed.
func (r JobRecord) PredictSeconds() *float64 {
	if r.PredictTime == "" {
		return nil
	}
	v, err := strconv.ParseFloat(r.PredictTime, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ArtifactURL extracts the produced artifact reference from the serialized
// output. The upstream service reports either a single URL or a list of
// URLs; the first one wins.
func (r JobRecord) ArtifactURL() (string, bool) {
	out := strings.TrimSpace(r.Output)
	if out == "" || out == "null" {
		return "", false
	}

	var list []string
	if err := json.Unmarshal([]byte(out), &list); err == nil {
		for _, u := range list {
			if u != "" {
				return u, true
			}
		}
		return "", false
	}

	var single string
	if err := json.Unmarshal([]byte(out), &single); err == nil && single != "" {
		return single, true
	}

	if strings.HasPrefix(out, "http") {
		return out, true
	}
	return "", false
}
