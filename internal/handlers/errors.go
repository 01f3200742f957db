package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/models"
)

// respondError maps the error taxonomy onto a status code and JSON body.
func respondError(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		invalid    *models.InvalidPayloadError
		incomplete *models.IncompleteRecordError
		auth       *models.AuthError
		upstream   *models.UpstreamError
		store      *models.StoreError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:         validation.Message,
			MissingFields: validation.MissingFields,
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid payload", Message: invalid.Reason})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "incomplete job record", Message: err.Error()})
	case errors.As(err, &auth):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Message: auth.Reason})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   upstream.Service + " request failed",
			Message: upstream.Err.Error(),
		})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "store unavailable", Message: err.Error()})
	case errors.As(err, &store):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "store operation failed", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error", Message: err.Error()})
	}
}
