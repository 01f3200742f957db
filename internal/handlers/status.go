package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/jobstore"
	"video-upscaler-backend/internal/models"
)

type StatusHandler struct {
	jobs jobstore.Store
}

func NewStatusHandler(jobs jobstore.Store) *StatusHandler {
	return &StatusHandler{jobs: jobs}
}

// GetStatus godoc
// @Summary     Get prediction status
// @Description Returns the stored job record as flat fields, or {"status":"processing"} when nothing is stored yet
// @Tags        replicate
// @Produce     json
// @Param       id query string true "Prediction ID"
// @Success     200 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/v1/replicate/prediction [get]
func (h *StatusHandler) GetStatus(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, models.NewValidationError("Prediction ID is required", "id"))
		return
	}

	rec, err := h.jobs.Get(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"status": models.JobStatusProcessing})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec.Fields())
}
