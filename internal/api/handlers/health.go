package handlers

import (
	"net/http"

	"chat-relay/internal/websocket"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	hub *websocket.Hub
}

func NewHealthHandler(hub *websocket.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats godoc
// @Summary Relay statistics
// @Description Online identifiers, joined sessions and relay counters since start.
// @Tags health
// @Produce json
// @Success 200 {object} websocket.HubStats
// @Router /api/v1/stats [get]
func (h *HealthHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Stats())
}
