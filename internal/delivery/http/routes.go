package http

import (
	"github.com/gin-gonic/gin"

	"github.com/forkflame/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.GetCatalog)
			catalog.POST("/revalidate", handler.RevalidateCatalog)
			catalog.GET("/featured", handler.GetFeaturedCatalog)
			catalog.POST("/featured/revalidate", handler.RevalidateFeatured)
		}

		cart := v1.Group("/cart")
		{
			cart.POST("/validate", handler.ValidateCart)
		}
	}

	return router
}
