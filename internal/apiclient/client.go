// Package apiclient talks to the upscaler HTTP API on behalf of the client
// workflow.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"video-upscaler-backend/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client. token is sent as a bearer token and is only
// required by the history endpoints.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Response   models.ErrorResponse
}

func (e *Error) Error() string {
	if e.Response.Message != "" {
		return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Response.Error, e.Response.Message)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Response.Error)
}

// Unwrap exposes the matching taxonomy error so callers can use errors.As
// on the same types the server returns.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return models.NewValidationError(e.Response.Error, e.Response.MissingFields...)
	case e.StatusCode == http.StatusUnauthorized:
		return &models.AuthError{Reason: e.Response.Error}
	case e.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case e.StatusCode == http.StatusBadGateway:
		return &models.UpstreamError{Service: "api", Op: e.Response.Error, Err: fmt.Errorf("%s", e.Response.Message)}
	case e.StatusCode == http.StatusServiceUnavailable:
		return models.ErrStoreUnavailable
	}
	return nil
}

func (c *Client) Submit(ctx context.Context, req models.SubmitRequest) (*models.SubmitResponse, error) {
	var out models.SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/replicate", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("invalid response: missing prediction id")
	}
	return &out, nil
}

// Status fetches the job record. An absent record comes back from the
// server as processing.
func (c *Client) Status(ctx context.Context, id string) (models.JobRecord, error) {
	var fields map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/v1/replicate/prediction?id="+url.QueryEscape(id), nil, &fields); err != nil {
		return models.JobRecord{}, err
	}
	if len(fields) == 0 {
		return models.JobRecord{}, fmt.Errorf("no data received from prediction endpoint")
	}
	return models.JobRecordFromFields(id, fields), nil
}

func (c *Client) Cancel(ctx context.Context, id string) (*models.CancelResponse, error) {
	var out models.CancelResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/replicate/cancel-prediction", models.CancelRequest{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadMedia(ctx context.Context, videoURL string, kind models.AssetKind) (*models.MediaUploadResponse, error) {
	var out models.MediaUploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/cloudinary", models.MediaUploadRequest{VideoURL: videoURL, Type: kind}, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, fmt.Errorf("invalid response: missing url")
	}
	return &out, nil
}

func (c *Client) RecordHistory(ctx context.Context, req models.HistoryWriteRequest) (*models.HistoryWriteResponse, error) {
	var out models.HistoryWriteResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/db", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	var out models.HistoryListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/db", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Response); err != nil || apiErr.Response.Error == "" {
			apiErr.Response.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	return nil
}
