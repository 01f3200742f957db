package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"video-upscaler-backend/internal/cdn"
	"video-upscaler-backend/internal/events"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/predictor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUploader struct {
	mu    sync.Mutex
	calls []models.AssetKind
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, sourceURL string, kind models.AssetKind) (*cdn.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &cdn.Asset{URL: "https://cdn/" + string(kind) + ".mp4", PublicID: string(kind)}, nil
}

type fakePredictor struct {
	created []predictor.CreateRequest
	err     error
}

func (f *fakePredictor) Create(_ context.Context, req predictor.CreateRequest) (*predictor.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &predictor.Prediction{ID: "job-1", Status: models.JobStatusStarting}, nil
}

func (f *fakePredictor) Cancel(_ context.Context, id string) (*predictor.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &predictor.Prediction{ID: id, Status: "canceled"}, nil
}

// memoryJobs mirrors the Redis store's merge and rank guard and can fail
// the next N writes.
type memoryJobs struct {
	mu         sync.Mutex
	records    map[string]models.JobRecord
	failWrites int
	writes     int
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{records: map[string]models.JobRecord{}}
}

func (m *memoryJobs) Upsert(_ context.Context, rec models.JobRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failWrites > 0 {
		m.failWrites--
		return false, &models.StoreError{Store: "memory", Op: "upsert", Err: errors.New("connection reset")}
	}
	cur, ok := m.records[rec.ID]
	if !ok {
		m.records[rec.ID] = rec
		return true, nil
	}
	if cur.Status.IsTerminal() || rec.Status.Rank() < cur.Status.Rank() {
		return false, nil
	}
	fields := cur.Fields()
	for k, v := range rec.Fields() {
		if v != "" {
			fields[k] = v
		}
	}
	m.records[rec.ID] = models.JobRecordFromFields(rec.ID, fields)
	return true, nil
}

func (m *memoryJobs) Get(_ context.Context, id string) (models.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return models.JobRecord{}, models.ErrNotFound
	}
	return rec, nil
}

func (m *memoryJobs) Ping(context.Context) error { return nil }

type recordingPublisher struct {
	events []events.JobEvent
}

func (p *recordingPublisher) PublishJobEvent(_ context.Context, e events.JobEvent) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memoryHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (m *memoryHistory) Insert(_ context.Context, e models.HistoryEntry) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.entries = append(m.entries, e)
	return "hist-1", nil
}

func (m *memoryHistory) ListByUser(_ context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.HistoryEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryHistory) Ping(context.Context) error  { return nil }
func (m *memoryHistory) Close(context.Context) error { return nil }
