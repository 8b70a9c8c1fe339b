package handlers

import (
	"strings"

	"chat-relay/internal/websocket"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *websocket.Hub
}

func NewWSHandler(hub *websocket.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *WSHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket godoc
// @Summary WebSocket connection
// @Description Open a relay session. Frames are JSON envelopes {"event": name, "data": payload}.
// @Description Client events: join {"userId"}, send_message {sender_id, recipient_id, ...}.
// @Description Server events: new_message (the original message, unchanged).
// @Tags websocket
// @Param userId query string false "User ID joined as soon as the connection opens"
// @Success 101 "Switching Protocols - WebSocket connection established"
// @Failure 400 "Not a WebSocket handshake"
// @Failure 403 "Origin not allowed"
// @Failure 429 {object} map[string]interface{} "Connection rate limit exceeded"
// @Router /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	websocket.ServeWS(h.hub, c.Writer, c.Request, userID)
}
