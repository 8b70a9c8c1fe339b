package websocket

import (
	"context"
	"errors"
	"log/slog"
)

// RouteResult summarises one fan-out.
type RouteResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// Router fans chat messages out to the sessions of sender and recipient.
type Router struct {
	registry *Registry
	metrics  *Metrics
	logger   *slog.Logger
}

func NewRouter(registry *Registry, metrics *Metrics, logger *slog.Logger) *Router {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{registry: registry, metrics: metrics, logger: logger}
}

// Route delivers one new_message event to every session under the recipient
// id and, independently, every session under the sender id. A session joined
// under both ids receives the event twice. Messages without either id are
// dropped.
func (r *Router) Route(msg *ChatMessage) RouteResult {
	var res RouteResult
	if msg == nil || (msg.SenderID == "" && msg.RecipientID == "") {
		r.metrics.MessagesDropped.Add(1)
		return res
	}

	frame, err := EncodeEvent(EventNewMessage, msg.Raw)
	if err != nil {
		r.logger.Warn("Dropping message that cannot be encoded", "error", err)
		r.metrics.MessagesDropped.Add(1)
		return res
	}

	for _, userID := range []string{msg.RecipientID, msg.SenderID} {
		if userID == "" {
			continue
		}
		for _, s := range r.registry.SessionsFor(userID) {
			if err := s.Send(frame); err != nil {
				res.Failed++
				r.drop(s, userID, err)
				continue
			}
			res.Delivered++
		}
	}

	r.metrics.MessagesRouted.Add(1)
	r.metrics.Deliveries.Add(int64(res.Delivered))
	r.metrics.DeliveryFailures.Add(int64(res.Failed))
	r.logger.Debug("Message routed",
		"senderID", msg.SenderID,
		"recipientID", msg.RecipientID,
		"delivered", res.Delivered,
		"failed", res.Failed,
	)
	return res
}

// drop treats a failed delivery as a disconnect.
func (r *Router) drop(s Session, userID string, err error) {
	r.registry.Leave(s)
	s.Close()

	level := slog.LevelDebug
	if errors.Is(err, ErrSlowConsumer) {
		r.metrics.SlowConsumerDrops.Add(1)
		level = slog.LevelWarn
	}
	r.logger.Log(context.Background(), level, "Dropped session after failed delivery",
		"sessionID", s.ID(), "userID", userID, "error", err)
}
