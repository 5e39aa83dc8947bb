package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/trackpull-go/api/handlers"
	"github.com/yourusername/trackpull-go/api/middleware"
	"github.com/yourusername/trackpull-go/internal/relay"
)

// SetupRouter sets up the HTTP router for the auth handshake surface
func SetupRouter(r *relay.Relay, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	authHandler := handlers.NewAuthHandler(r, log)
	healthHandler := handlers.NewHealthHandler(r)

	router.GET("/health", healthHandler.Health)
	router.GET("/auth", authHandler.Page)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/callback", authHandler.Callback)
			auth.GET("/status", authHandler.Status)
		}
	}

	return router
}
