package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plasticlens/backend/config"
	"github.com/plasticlens/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)))
	}

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.POST("/compare", handler.CompareProducts)
			products.GET("/:id", handler.GetProduct)
		}

		v1.GET("/categories/:category/safest", handler.SafestInCategory)

		analysis := v1.Group("/analysis")
		{
			analysis.GET("/packaging", handler.PackagingAnalysis)
			analysis.GET("/organic", handler.OrganicAnalysis)
		}
	}

	return router
}
