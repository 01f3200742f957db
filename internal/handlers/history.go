package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/middleware"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/services"
)

type HistoryHandler struct {
	service *services.HistoryService
}

func NewHistoryHandler(service *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Create godoc
// @Summary     Record a finished job
// @Description Stores one history entry for the authenticated user. enhanced_video_url must be set iff status is succeeded.
// @Tags        history
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.HistoryWriteRequest true "History entry"
// @Success     201 {object} models.HistoryWriteResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /api/v1/db [post]
func (h *HistoryHandler) Create(c *gin.Context) {
	var req models.HistoryWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	id, err := h.service.Record(c.Request.Context(), c.GetString(middleware.UserIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.HistoryWriteResponse{
		Success: true,
		ID:      id,
		Message: "Video processing record saved successfully",
	})
}

// List godoc
// @Summary     List job history
// @Description Returns up to 100 most recent history entries for the authenticated user, newest first
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.HistoryListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /api/v1/db [get]
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	c.JSON(http.StatusOK, models.HistoryListResponse{
		Message: "Videos retrieved successfully",
		Data:    entries,
	})
}
