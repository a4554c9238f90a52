package app

import (
	"github.com/gin-gonic/gin"

	"github.com/langflix/langflix-backend/internal/http/handlers"
	"github.com/langflix/langflix-backend/internal/http/middleware"
	"github.com/langflix/langflix-backend/internal/platform/logger"
)

func NewRouter(log *logger.Logger, adaptive *handlers.AdaptiveHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))

	router.GET("/healthcheck", handlers.Health)

	api := router.Group("/api/adaptive/:userId")
	{
		api.POST("/interactions", adaptive.RecordInteraction)
		api.GET("/signals", adaptive.GetSignals)
		api.POST("/assessment", adaptive.AssessInitialLevel)
		api.POST("/adjust", adaptive.AdjustRealtime)
		api.POST("/score", adaptive.ScoreContent)
		api.GET("/feed", adaptive.GetFeed)
		api.GET("/profile", adaptive.GetProfile)
		api.PUT("/known-words", adaptive.SetKnownWords)
		api.POST("/milestone", adaptive.CheckMilestone)
		api.GET("/beginner-settings", adaptive.GetBeginnerSettings)
		api.GET("/session-stats", adaptive.GetSessionStats)
		api.POST("/progression", adaptive.CheckProgression)
	}

	return router
}
