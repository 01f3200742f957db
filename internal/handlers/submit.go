package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/predictor"
	"video-upscaler-backend/internal/services"
)

type ReplicateHandler struct {
	submitter *services.Submitter
	predictor predictor.Predictor
}

func NewReplicateHandler(submitter *services.Submitter, p predictor.Predictor) *ReplicateHandler {
	return &ReplicateHandler{submitter: submitter, predictor: p}
}

// Submit godoc
// @Summary     Submit an upscaling job
// @Description Uploads the source video to the CDN and registers a prediction with Replicate
// @Tags        replicate
// @Accept      json
// @Produce     json
// @Param       request body models.SubmitRequest true "Submission"
// @Success     200 {object} models.SubmitResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/replicate [post]
func (h *ReplicateHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	res, err := h.submitter.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitResponse{
		Success: true,
		ID:      res.ID,
		Status:  res.Status,
	})
}

// Cancel godoc
// @Summary     Cancel a prediction
// @Description Cancels the upstream Replicate prediction. The job store record is left to the webhook.
// @Tags        replicate
// @Accept      json
// @Produce     json
// @Param       request body models.CancelRequest true "Prediction to cancel"
// @Success     200 {object} models.CancelResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/replicate/cancel-prediction [post]
func (h *ReplicateHandler) Cancel(c *gin.Context) {
	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}
	if req.ID == "" {
		respondError(c, models.NewValidationError("Prediction ID is required", "id"))
		return
	}

	prediction, err := h.predictor.Cancel(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CancelResponse{
		Success: true,
		Data:    models.CancelOutcome{ID: prediction.ID, Status: string(prediction.Status)},
	})
}
