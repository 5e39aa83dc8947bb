package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/trackpull-go/internal/relay"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	relay *relay.Relay
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(r *relay.Relay) *HealthHandler {
	return &HealthHandler{relay: r}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Auth    struct {
		Open bool `json:"open"`
	} `json:"auth"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}
	response.Auth.Open = h.relay.IsOpen()

	c.JSON(http.StatusOK, response)
}
