package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"video-upscaler-backend/internal/middleware"
)

type Router struct {
	Replicate *ReplicateHandler
	Status    *StatusHandler
	Webhook   *WebhookHandler
	Media     *MediaHandler
	History   *HistoryHandler
	Health    *HealthHandler
	Auth      gin.HandlerFunc
	Logger    *slog.Logger
}

// Engine registers every route. Job routes are open so the upstream service
// and the client poller can reach them; history routes require a user token.
func (r Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	if r.Logger != nil {
		engine.Use(middleware.RequestLogger(r.Logger))
	}

	engine.GET("/health", r.Health.Health)

	api := engine.Group("/api/v1")

	replicate := api.Group("/replicate")
	replicate.POST("", r.Replicate.Submit)
	replicate.GET("/prediction", r.Status.GetStatus)
	replicate.POST("/webhook", r.Webhook.HandleWebhook)
	replicate.POST("/cancel-prediction", r.Replicate.Cancel)

	api.POST("/cloudinary", r.Media.Upload)

	db := api.Group("/db")
	db.Use(r.Auth)
	db.POST("", r.History.Create)
	db.GET("", r.History.List)

	return engine
}
