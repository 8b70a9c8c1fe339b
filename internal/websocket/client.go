package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Time allowed to hand a connection or frame to the hub
	hubHandoffWait = 5 * time.Second
)

var (
	ErrClientDisconnected = errors.New("client disconnected")
	ErrSlowConsumer       = errors.New("client send buffer full")
)

// Client is the gorilla/websocket implementation of Session.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string // supplied at connect time, may be empty

	ctx    context.Context
	cancel context.CancelFunc
	closed int32

	logger *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()

	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, hub.cfg.SendBufferSize),
		userID: userID,
		ctx:    ctx,
		cancel: cancel,
		logger: hub.logger.With("clientID", id).Logger,
	}
}

func (c *Client) ID() string {
	return c.id
}

// UserID is the identifier supplied when the connection was opened.
func (c *Client) UserID() string {
	return c.userID
}

// Send queues frame for the write pump without blocking. A full queue means
// the peer is not draining; the client is closed rather than stalling the hub.
func (c *Client) Send(frame []byte) error {
	if c.isClosed() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- frame:
		return nil
	default:
		c.logger.Warn("Send buffer full, closing client", "buffer", cap(c.send))
		c.Close()
		return ErrSlowConsumer
	}
}

// Close is idempotent. The read pump notices the closed socket and
// unregisters the client from the hub.
func (c *Client) Close() {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return
	}
	c.cancel()
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("Error closing connection", "error", err)
		}
	}
	c.logger.Debug("Client marked as closed")
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Client) readPump() {
	defer func() {
		c.Close()

		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		case <-time.After(hubHandoffWait):
			c.logger.Warn("Timeout sending unregister request")
		}
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) && !c.isClosed() {
				c.logger.Warn("WebSocket read error", "error", err)
			} else {
				c.logger.Debug("WebSocket connection closed", "error", err)
			}
			return
		}

		select {
		case c.hub.handleMessage <- &ClientMessage{Client: c, Frame: frame}:
		case <-c.ctx.Done():
			return
		case <-c.hub.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("Error writing message", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Error sending ping", "error", err)
				return
			}

		case <-c.ctx.Done():
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// ServeWS upgrades the request and hands the connection to the hub. A
// non-empty userID is joined as soon as the hub registers the client.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := newClient(hub, conn, userID)

	select {
	case hub.register <- client:
	case <-hub.ctx.Done():
		client.Close()
		return
	case <-time.After(hubHandoffWait):
		hub.logger.Error("Timeout sending registration request", "clientID", client.id, "userID", userID)
		client.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
