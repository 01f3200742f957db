package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-upscaler-backend/internal/cdn"
	"video-upscaler-backend/internal/config"
	"video-upscaler-backend/internal/handlers"
	"video-upscaler-backend/internal/jobstore"
	"video-upscaler-backend/internal/middleware"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/predictor"
	"video-upscaler-backend/internal/retry"
	"video-upscaler-backend/internal/services"
)

const jwtSecret = "handlers-test-secret"

type stubUploader struct{ err error }

func (s stubUploader) Upload(_ context.Context, _ string, kind models.AssetKind) (*cdn.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &cdn.Asset{URL: "https://cdn/" + cdn.Folder(kind) + "/v.mp4", PublicID: cdn.Folder(kind) + "/v"}, nil
}

type stubPredictor struct{ err error }

func (s stubPredictor) Create(context.Context, predictor.CreateRequest) (*predictor.Prediction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &predictor.Prediction{ID: "job-1", Status: models.JobStatusStarting}, nil
}

func (s stubPredictor) Cancel(_ context.Context, id string) (*predictor.Prediction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &predictor.Prediction{ID: id, Status: "canceled"}, nil
}

type stubHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (s *stubHistory) Insert(_ context.Context, e models.HistoryEntry) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.entries = append(s.entries, e)
	return "64b7f0c2a1b2c3d4e5f60718", nil
}

func (s *stubHistory) ListByUser(_ context.Context, userID string, _ int) ([]models.HistoryEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.HistoryEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubHistory) Ping(context.Context) error  { return nil }
func (s *stubHistory) Close(context.Context) error { return nil }

type testServer struct {
	engine  *gin.Engine
	redis   *miniredis.Miniredis
	jobs    *jobstore.RedisStore
	history *stubHistory
}

type serverOptions struct {
	uploader  cdn.Uploader
	predictor predictor.Predictor
	verifier  *handlers.WebhookVerifier
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.uploader == nil {
		opts.uploader = stubUploader{}
	}
	if opts.predictor == nil {
		opts.predictor = stubPredictor{}
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	jobs := jobstore.NewRedisStoreFromClient(client, time.Hour)
	hist := &stubHistory{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	webhooks := services.NewWebhookService(jobs, nil, retry.Fixed(3, time.Millisecond), logger)
	router := handlers.Router{
		Replicate: handlers.NewReplicateHandler(services.NewSubmitter(opts.uploader, opts.predictor, jobs, "https://app/api/v1/replicate/webhook", logger), opts.predictor),
		Status:    handlers.NewStatusHandler(jobs),
		Webhook:   handlers.NewWebhookHandler(webhooks, opts.verifier, logger),
		Media:     handlers.NewMediaHandler(services.NewMediaService(opts.uploader, logger)),
		History:   handlers.NewHistoryHandler(services.NewHistoryService(hist, logger)),
		Health:    handlers.NewHealthHandler(jobs),
		Auth:      middleware.AuthMiddleware(&config.Config{AuthJWTSecret: jwtSecret}),
	}

	return &testServer{engine: router.Engine(), redis: mr, jobs: jobs, history: hist}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, sub string) map[string]string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	s.redis.Close()
	w = s.do(t, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmit_ThenStatusResolves(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/replicate", models.SubmitRequest{
		VideoURL:   "https://example.com/a.mp4",
		Model:      "RealESRGAN_x4plus",
		Resolution: "FHD",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.SubmitResponse](t, w)
	assert.Equal(t, models.SubmitResponse{Success: true, ID: "job-1", Status: models.JobStatusStarting}, resp)

	w = s.do(t, "GET", "/api/v1/replicate/prediction?id="+resp.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fields := decode[map[string]string](t, w)
	assert.Equal(t, "queued", fields["status"])
	assert.Equal(t, "https://cdn/original_videos/v.mp4", fields["original_file"])
}

func TestSubmit_MissingFields(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/replicate", models.SubmitRequest{VideoURL: "https://example.com/a.mp4"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "Video URL, resolution, and model are required", resp.Error)
	assert.Equal(t, []string{"model", "resolution"}, resp.MissingFields)
}

func TestSubmit_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, serverOptions{predictor: stubPredictor{
		err: &models.UpstreamError{Service: "replicate", Op: "create prediction", Err: errors.New("quota exceeded")},
	}})

	w := s.do(t, "POST", "/api/v1/replicate", models.SubmitRequest{VideoURL: "https://x/a.mp4", Model: "m", Resolution: "FHD"}, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "quota exceeded")
}

func TestStatus_Absent(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "GET", "/api/v1/replicate/prediction?id=nope", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"processing"}`, w.Body.String())
}

func TestStatus_MissingID(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "GET", "/api/v1/replicate/prediction", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_StoresRecord(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/replicate/webhook", `{
		"id": "job-1",
		"status": "succeeded",
		"output": "[\"https://cdn/out.mp4\"]",
		"input": {"model": "RealESRGAN_x4plus", "resolution": "FHD", "video_path": "https://cdn/original.mp4"},
		"created_at": "2024-01-01T00:00:00Z",
		"completed_at": "2024-01-01T00:05:00Z",
		"metrics": {"predict_time": 300}
	}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(t, "GET", "/api/v1/replicate/prediction?id=job-1", nil, nil)
	fields := decode[map[string]string](t, w)
	assert.Equal(t, "succeeded", fields["status"])
	assert.Equal(t, `["https://cdn/out.mp4"]`, fields["output"])
	assert.Equal(t, "2024-01-01T00:05:00Z", fields["completed_at"])
	assert.Equal(t, "300", fields["predict_time"])
}

func TestWebhook_RejectsWithoutMutation(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown status", body: `{"id":"job-1","status":"exploded"}`},
		{name: "starting status", body: `{"id":"job-1","status":"starting"}`},
		{name: "canceled status", body: `{"id":"job-1","status":"canceled"}`},
		{name: "missing id", body: `{"status":"succeeded"}`},
		{name: "malformed json", body: `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, "POST", "/api/v1/replicate/webhook", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, s.redis.Keys())
		})
	}
}

func TestWebhook_OversizedBodyRejected(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	body := `{"id":"job-1","status":"succeeded","output":"` + strings.Repeat("a", handlers.MaxWebhookBody) + `"}`

	w := s.do(t, "POST", "/api/v1/replicate/webhook", body, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "payload too large", decode[models.ErrorResponse](t, w).Error)
	assert.Empty(t, s.redis.Keys())
}

func TestWebhook_StoreDownReturnsServerError(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	s.redis.Close()

	w := s.do(t, "POST", "/api/v1/replicate/webhook", `{"id":"job-1","status":"processing"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook_Signature(t *testing.T) {
	verifier, err := handlers.NewWebhookVerifier("whsec_c2VjcmV0LWtleQ==")
	require.NoError(t, err)
	s := newTestServer(t, serverOptions{verifier: verifier})

	body := `{"id":"job-1","status":"processing"}`
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	good := map[string]string{
		"webhook-id":        "msg_1",
		"webhook-timestamp": ts,
		"webhook-signature": "v1,bogus v1," + verifier.Sign("msg_1", ts, []byte(body)),
	}

	w := s.do(t, "POST", "/api/v1/replicate/webhook", body, good)
	assert.Equal(t, http.StatusOK, w.Code)

	bad := map[string]string{
		"webhook-id":        "msg_1",
		"webhook-timestamp": ts,
		"webhook-signature": "v1," + verifier.Sign("msg_2", ts, []byte(body)),
	}
	w = s.do(t, "POST", "/api/v1/replicate/webhook", body, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, "POST", "/api/v1/replicate/webhook", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	stale := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	old := map[string]string{
		"webhook-id":        "msg_1",
		"webhook-timestamp": stale,
		"webhook-signature": "v1," + verifier.Sign("msg_1", stale, []byte(body)),
	}
	w = s.do(t, "POST", "/api/v1/replicate/webhook", body, old)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCancel(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/replicate/cancel-prediction", models.CancelRequest{ID: "job-1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"job-1","status":"canceled"}}`, w.Body.String())

	w = s.do(t, "POST", "/api/v1/replicate/cancel-prediction", models.CancelRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaUpload(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/cloudinary", models.MediaUploadRequest{VideoURL: "https://replicate.delivery/out.mp4", Type: models.AssetEnhanced}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://cdn/enhanced_videos/v.mp4","public_id":"enhanced_videos/v"}`, w.Body.String())

	w = s.do(t, "POST", "/api/v1/cloudinary", models.MediaUploadRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_RequiresAuth(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "GET", "/api/v1/db", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, "POST", "/api/v1/db", models.HistoryWriteRequest{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistory_WriteAndList(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	enhanced := "https://cdn/enhanced_videos/v.mp4"

	w := s.do(t, "POST", "/api/v1/db", models.HistoryWriteRequest{
		OriginalVideoURL: "https://cdn/original_videos/v.mp4",
		EnhancedVideoURL: &enhanced,
		Status:           models.JobStatusSucceeded,
		CreatedAt:        "2024-01-01T00:00:00Z",
		EndedAt:          "2024-01-01T00:05:00Z",
		Model:            "RealESRGAN_x4plus",
		Resolution:       "FHD",
	}, bearer(t, "user-1"))

	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.HistoryWriteResponse](t, w)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.ID)

	w = s.do(t, "GET", "/api/v1/db", nil, bearer(t, "user-1"))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.HistoryListResponse](t, w)
	require.Len(t, list.Data, 1)
	assert.Equal(t, models.JobStatusSucceeded, list.Data[0].Status)
	require.NotNil(t, list.Data[0].EnhancedVideoURL)
	assert.Equal(t, enhanced, *list.Data[0].EnhancedVideoURL)

	w = s.do(t, "GET", "/api/v1/db", nil, bearer(t, "user-2"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Videos retrieved successfully","data":[]}`, w.Body.String())
}

func TestHistory_WriteValidation(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, "POST", "/api/v1/db", models.HistoryWriteRequest{Status: models.JobStatusFailed}, bearer(t, "user-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "Missing required fields", resp.Error)
	assert.Contains(t, resp.MissingFields, "original_video_url")
	assert.Empty(t, s.history.entries)
}

func TestHistory_StoreUnavailable(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	s.history.err = &models.StoreError{Store: "mongo", Op: "find", Err: errors.Join(models.ErrStoreUnavailable, errors.New("no reachable servers"))}

	w := s.do(t, "GET", "/api/v1/db", nil, bearer(t, "user-1"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
