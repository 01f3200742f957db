// Package predictor registers and cancels upscaling jobs with Replicate.
package predictor

import (
	"context"
	"fmt"

	"github.com/replicate/replicate-go"
	"video-upscaler-backend/internal/models"
)

// Predictor is the upstream AI service.
type Predictor interface {
	Create(ctx context.Context, req CreateRequest) (*Prediction, error)
	Cancel(ctx context.Context, id string) (*Prediction, error)
}

type CreateRequest struct {
	VideoURL   string
	Model      string
	Resolution string
	WebhookURL string
}

type Prediction struct {
	ID     string
	Status models.JobStatus
}

type ReplicateClient struct {
	client  *replicate.Client
	version string
}

// WebhookEvents are the prediction events delivered to the webhook. start
// deliveries carry "starting", which the receiver rejects.
var WebhookEvents = []replicate.WebhookEventType{replicate.WebhookEventCompleted}

func NewReplicateClient(token, modelVersion string, opts ...replicate.ClientOption) (*ReplicateClient, error) {
	client, err := replicate.NewClient(append([]replicate.ClientOption{replicate.WithToken(token)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create replicate client: %w", err)
	}
	return &ReplicateClient{client: client, version: modelVersion}, nil
}

func (c *ReplicateClient) Create(ctx context.Context, req CreateRequest) (*Prediction, error) {
	input := replicate.PredictionInput{
		"video_path": req.VideoURL,
		"model":      req.Model,
		"resolution": req.Resolution,
	}

	var webhook *replicate.Webhook
	if req.WebhookURL != "" {
		webhook = &replicate.Webhook{
			URL:    req.WebhookURL,
			Events: WebhookEvents,
		}
	}

	prediction, err := c.client.CreatePrediction(ctx, c.version, input, webhook, false)
	if err != nil {
		return nil, &models.UpstreamError{Service: "replicate", Op: "create prediction", Err: err}
	}

	return &Prediction{ID: prediction.ID, Status: models.JobStatus(prediction.Status)}, nil
}

func (c *ReplicateClient) Cancel(ctx context.Context, id string) (*Prediction, error) {
	prediction, err := c.client.CancelPrediction(ctx, id)
	if err != nil {
		return nil, &models.UpstreamError{Service: "replicate", Op: "cancel prediction", Err: err}
	}
	return &Prediction{ID: prediction.ID, Status: models.JobStatus(prediction.Status)}, nil
}
