package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/services"
)

// MaxWebhookBody caps the bytes read from one webhook delivery.
const MaxWebhookBody = 1 << 20

type WebhookHandler struct {
	service  *services.WebhookService
	verifier *WebhookVerifier
	logger   *slog.Logger
}

// NewWebhookHandler builds the receiver. A nil verifier disables signature checks.
func NewWebhookHandler(service *services.WebhookService, verifier *WebhookVerifier, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service:  service,
		verifier: verifier,
		logger:   logger.With("component", "webhook_handler"),
	}
}

// HandleWebhook godoc
// @Summary     Replicate webhook endpoint
// @Description Receives prediction status callbacks from Replicate and stores them in the job store. Signature headers are verified when a webhook secret is configured.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       payload body models.WebhookPayload true "Prediction payload"
// @Success     200 {object} models.WebhookResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/replicate/webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body too large", "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   "payload too large",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read request body",
			Message: err.Error(),
		})
		return
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(c.Request.Header, body); err != nil {
			h.logger.Warn("webhook rejected", "error", err)
			respondError(c, err)
			return
		}
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse payload",
			Message: err.Error(),
		})
		return
	}

	if _, err := h.service.Apply(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.WebhookResponse{Success: true})
}
