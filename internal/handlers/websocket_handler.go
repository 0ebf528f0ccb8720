package handlers

import (
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// WebSocketHandler streams bridge events. Events are public, so no token
// is required.
type WebSocketHandler struct {
	pushService *services.WebSocketPushService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(pushService *services.WebSocketPushService) *WebSocketHandler {
	return &WebSocketHandler{pushService: pushService}
}

// HandleWebSocket GET /ws/events?mint=<base58> narrows the stream to one NFT.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	mint := c.Query("mint")
	if mint != "" {
		if _, err := ledger.ParseAddress(mint); err != nil {
			badRequest(c, "invalid mint address")
			return
		}
	}
	h.pushService.HandleWebSocket(c.Writer, c.Request, mint)
}

// GetConnectionStatus GET /ws/status
func (h *WebSocketHandler) GetConnectionStatus(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": h.pushService.GetActiveConnections(),
	})
}
