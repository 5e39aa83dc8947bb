package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/trackpull-go/internal/relay"
	"go.uber.org/zap"
)

// AuthHandler bridges the credential page and the handshake relay. It never
// hands the page a reference to anything; the page talks back through one
// POST carrying the typed message shape.
type AuthHandler struct {
	relay  *relay.Relay
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(r *relay.Relay, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{relay: r, logger: logger}
}

// CallbackRequest is the wire shape posted by the credential page.
type CallbackRequest struct {
	Type    string `json:"type" binding:"required"`
	Cookies string `json:"cookies,omitempty"`
	Message string `json:"message,omitempty"`
}

// Page handles GET /auth and serves the credential collection surface.
func (h *AuthHandler) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(authPageHTML))
}

// Callback handles POST /api/v1/auth/callback. The declared origin of the
// message is taken from the Origin header; the relay drops anything that is
// not its own origin, so a well-formed payload from elsewhere has no effect.
func (h *AuthHandler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := relay.ParseMessage(req.Type, req.Cookies, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		// Non-browser clients (curl, tests) send no Origin header. Falling
		// back to the Host line treats any client that can already reach the
		// surface's listen address as local; the surface is meant to be bound
		// to loopback, which is what makes that assumption hold.
		origin = "http://" + c.Request.Host
	}

	h.relay.Deliver(origin, msg)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Status handles GET /api/v1/auth/status for the page to poll.
func (h *AuthHandler) Status(c *gin.Context) {
	session := h.relay.Session()
	c.JSON(http.StatusOK, gin.H{
		"open":           h.relay.IsOpen(),
		"has_credential": session.Credential != "",
		"status_message": session.StatusMessage,
	})
}
