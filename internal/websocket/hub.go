package websocket

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"chat-relay/pkg/logger"

	"github.com/gorilla/websocket"
)

const stopWait = 5 * time.Second

type HubConfig struct {
	SendBufferSize int
	MaxMessageSize int64
	AllowedOrigins []string
}

func (c *HubConfig) norm() {
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = 256
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 64 * 1024
	}
}

type ClientMessage struct {
	Client *Client
	Frame  []byte
}

type HubStats struct {
	Registry RegistryStats   `json:"registry"`
	Metrics  MetricsSnapshot `json:"metrics"`
}

// Hub owns every connection. Register, inbound frames and unregister are
// consumed by Run one at a time, so registry mutations happen in the order
// the transport surfaced them.
type Hub struct {
	// Connected clients, joined or not. Only touched by Run.
	clients map[*Client]bool

	registry *Registry
	router   *Router
	metrics  *Metrics

	register      chan *Client
	unregister    chan *Client
	handleMessage chan *ClientMessage

	// Context for graceful shutdown
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	upgrader websocket.Upgrader
	cfg      HubConfig
	logger   *logger.Logger
}

func NewHub(cfg HubConfig, log *logger.Logger) *Hub {
	cfg.norm()
	if log == nil {
		log = logger.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	registry := NewRegistry()
	metrics := NewMetrics()

	return &Hub{
		clients:       make(map[*Client]bool),
		registry:      registry,
		router:        NewRouter(registry, metrics, log.Logger),
		metrics:       metrics,
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		handleMessage: make(chan *ClientMessage),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		upgrader:      newUpgrader(cfg.AllowedOrigins),
		cfg:           cfg,
		logger:        log,
	}
}

func (h *Hub) Run() {
	h.running.Store(true)
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.handleMessage:
			h.handleClientMessage(clientMsg)

		case <-h.ctx.Done():
			h.logger.Info("WebSocket hub shutting down", "clients", len(h.clients))
			for client := range h.clients {
				h.registry.Leave(client)
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			return
		}
	}
}

// Stop ends Run and closes every connected client.
func (h *Hub) Stop() {
	h.cancel()
	if !h.running.Load() {
		return
	}
	select {
	case <-h.done:
	case <-time.After(stopWait):
		h.logger.Warn("Timeout waiting for hub to stop")
	}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

func (h *Hub) Stats() HubStats {
	return HubStats{
		Registry: h.registry.Stats(),
		Metrics:  h.metrics.Snapshot(),
	}
}

func (h *Hub) registerClient(client *Client) {
	if client.isClosed() {
		return
	}
	h.clients[client] = true
	h.metrics.TotalConnections.Add(1)
	h.metrics.ActiveConnections.Add(1)

	h.logger.Info("Client registered", "clientID", client.id, "userID", client.userID)

	if client.userID != "" {
		h.join(client, client.userID)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	left := h.registry.Leave(client)
	client.Close()

	h.metrics.ActiveConnections.Add(-1)
	h.metrics.Disconnects.Add(1)
	h.logger.Info("Client unregistered", "clientID", client.id, "userIDs", left)
}

func (h *Hub) join(client *Client, userID string) {
	if h.registry.Join(client, userID) {
		h.metrics.Joins.Add(1)
		h.logger.Debug("Client joined", "clientID", client.id, "userID", userID)
	}
}

// handleClientMessage isolates each frame: a panic is logged and counted, and
// the hub keeps serving every other client.
func (h *Hub) handleClientMessage(cm *ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			h.metrics.HandlerPanics.Add(1)
			clientID := ""
			if cm != nil && cm.Client != nil {
				clientID = cm.Client.id
			}
			h.logger.Error("Recovered from panic while handling frame",
				"clientID", clientID, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	client := cm.Client
	env, err := DecodeEnvelope(cm.Frame)
	if err != nil {
		h.metrics.MessagesDropped.Add(1)
		client.logger.Debug("Ignoring undecodable frame", "error", err)
		return
	}
	if !env.Event.IsValid() {
		client.logger.Debug("Ignoring unknown event", "event", env.Event)
		return
	}

	switch env.Event {
	case EventJoin:
		userID, err := ParseJoin(env.Data)
		if err != nil {
			client.logger.Debug("Ignoring join", "error", err)
			return
		}
		if client.isClosed() {
			return
		}
		if _, ok := h.clients[client]; !ok {
			return
		}
		h.join(client, userID)

	case EventSendMessage:
		msg, err := ParseChatMessage(env.Data)
		if err != nil {
			h.metrics.MessagesDropped.Add(1)
			client.logger.Debug("Ignoring message", "error", err)
			return
		}
		h.router.Route(msg)
	}
}
