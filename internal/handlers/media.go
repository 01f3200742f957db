package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/models"
	"video-upscaler-backend/internal/services"
)

type MediaHandler struct {
	service *services.MediaService
}

func NewMediaHandler(service *services.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// Upload godoc
// @Summary     Upload a video to the CDN
// @Description Uploads a remote video under the original or enhanced folder with the matching transcoding presets
// @Tags        media
// @Accept      json
// @Produce     json
// @Param       request body models.MediaUploadRequest true "Video to upload"
// @Success     200 {object} models.MediaUploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/cloudinary [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	var req models.MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	asset, err := h.service.Upload(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MediaUploadResponse{URL: asset.URL, PublicID: asset.PublicID})
}
