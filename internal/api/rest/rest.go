package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// SetupRoutes configures all REST API routes
// auth guards bundle submission
func SetupRoutes(router *gin.Engine, handler Handler, auth gin.HandlerFunc) {
	// Health check and metrics (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Bundle submission (requires authentication)
		v1.POST("/submit", auth, handler.Submit)

		// Lookup questions (public read access)
		v1.POST("/lookup", handler.Lookup)

		v1.GET("/topics/"+domain.TopicStreaks+"/docs", handler.TopicDocumentation)
		v1.GET("/topics/"+domain.TopicStreaks+"/metadata", handler.TopicMetaData)
		v1.GET("/services/"+domain.ServiceStreaks+"/docs", handler.ServiceDocumentation)
		v1.GET("/services/"+domain.ServiceStreaks+"/metadata", handler.ServiceMetaData)
	}
}
