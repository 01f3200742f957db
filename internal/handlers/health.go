package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	jobs Pinger
}

func NewHealthHandler(jobs Pinger) *HealthHandler {
	return &HealthHandler{jobs: jobs}
}

// Health godoc
// @Summary     Health check
// @Description Returns the health status of the API and its job store
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Failure     503 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.jobs.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "degraded", Redis: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Redis: "ok"})
}
