package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// EventType names a frame on the socket. Frames are JSON envelopes:
//
//	{"event": "send_message", "data": {...}}
type EventType string

const (
	// Client -> server
	EventJoin        EventType = "join"
	EventSendMessage EventType = "send_message"

	// Server -> client
	EventNewMessage EventType = "new_message"
)

var (
	ErrMissingIdentifiers = errors.New("message has neither sender_id nor recipient_id")
	ErrEmptyUserID        = errors.New("userId is required")
)

func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether a client may send this event.
func (e EventType) IsValid() bool {
	switch e {
	case EventJoin, EventSendMessage:
		return true
	default:
		return false
	}
}

// Envelope is the wire format of every frame in both directions.
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinData is the payload of a join event.
type JoinData struct {
	UserID string `json:"userId"`
}

// ChatMessage is a message published by the web application. Only the two
// routing identifiers are read; Raw is forwarded to recipients untouched.
type ChatMessage struct {
	SenderID    string
	RecipientID string
	Raw         json.RawMessage
}

// DecodeEnvelope parses one inbound frame.
func DecodeEnvelope(frame []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// ParseJoin extracts the user id of a join event.
func ParseJoin(data json.RawMessage) (string, error) {
	var jd JoinData
	if len(data) == 0 {
		return "", ErrEmptyUserID
	}
	if err := json.Unmarshal(data, &jd); err != nil {
		return "", fmt.Errorf("decode join: %w", err)
	}
	userID := strings.TrimSpace(jd.UserID)
	if userID == "" {
		return "", ErrEmptyUserID
	}
	return userID, nil
}

// ParseChatMessage reads the routing identifiers from an opaque message.
// Identifiers that are absent, null, empty or not strings count as missing.
func ParseChatMessage(data json.RawMessage) (*ChatMessage, error) {
	var ids struct {
		SenderID    any `json:"sender_id"`
		RecipientID any `json:"recipient_id"`
	}
	if len(data) == 0 {
		return nil, ErrMissingIdentifiers
	}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	msg := &ChatMessage{
		SenderID:    identifier(ids.SenderID),
		RecipientID: identifier(ids.RecipientID),
		Raw:         data,
	}
	if msg.SenderID == "" && msg.RecipientID == "" {
		return nil, ErrMissingIdentifiers
	}
	return msg, nil
}

func identifier(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// EncodeEvent builds an outbound frame.
func EncodeEvent(event EventType, data json.RawMessage) ([]byte, error) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return frame, nil
}
