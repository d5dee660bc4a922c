package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cartscout/backend/config"
	"github.com/cartscout/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler, log logger.Interface) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/compare", handler.CompareProduct)
		v1.GET("/history", handler.GetHistory)
	}

	return router
}
