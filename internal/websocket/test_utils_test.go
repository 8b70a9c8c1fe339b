package websocket

import (
	"encoding/json"
	"sync"
)

// fakeSession records frames instead of writing to a socket.
type fakeSession struct {
	id string

	mu       sync.Mutex
	frames   [][]byte
	closed   bool
	failWith error
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClientDisconnected
	}
	if f.failWith != nil {
		return f.failWith
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSession) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSession) received() []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Envelope, 0, len(f.frames))
	for _, frame := range f.frames {
		var env Envelope
		if err := json.Unmarshal(frame, &env); err == nil {
			out = append(out, env)
		}
	}
	return out
}

func chatMessage(sender, recipient, text string) *ChatMessage {
	body := map[string]any{"content": text}
	if sender != "" {
		body["sender_id"] = sender
	}
	if recipient != "" {
		body["recipient_id"] = recipient
	}
	raw, _ := json.Marshal(body)
	return &ChatMessage{SenderID: sender, RecipientID: recipient, Raw: raw}
}
