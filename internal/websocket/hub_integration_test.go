package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-relay/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, cfg HubConfig) (*Hub, string) {
	t.Helper()

	hub := NewHub(cfg, logger.Discard())
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, r.URL.Query().Get("userId"))
	}))
	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event EventType, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Event: event, Data: raw}))
}

func readEvent(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func waitForSessions(t *testing.T, hub *Hub, userID string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(hub.Registry().SessionsFor(userID)) == n
	}, 2*time.Second, 10*time.Millisecond, "waiting for %d sessions under %q", n, userID)
}

func TestRelayAliceToBob(t *testing.T) {
	hub, url := startTestServer(t, HubConfig{})

	alice := dial(t, url+"?userId=alice")
	bob := dial(t, url+"?userId=bob")
	waitForSessions(t, hub, "alice", 1)
	waitForSessions(t, hub, "bob", 1)

	msg := map[string]any{"sender_id": "alice", "recipient_id": "bob", "content": "Is 3pm fine?"}
	sendEvent(t, alice, EventSendMessage, msg)

	want, _ := json.Marshal(msg)
	for _, conn := range []*websocket.Conn{bob, alice} {
		env := readEvent(t, conn)
		assert.Equal(t, EventNewMessage, env.Event)
		assert.JSONEq(t, string(want), string(env.Data))
	}
}

func TestRelayExplicitJoin(t *testing.T) {
	hub, url := startTestServer(t, HubConfig{})

	tab := dial(t, url)
	sendEvent(t, tab, EventJoin, JoinData{UserID: "researcher-7"})
	waitForSessions(t, hub, "researcher-7", 1)

	sender := dial(t, url+"?userId=student-3")
	waitForSessions(t, hub, "student-3", 1)
	sendEvent(t, sender, EventSendMessage, map[string]string{"sender_id": "student-3", "recipient_id": "researcher-7"})

	env := readEvent(t, tab)
	assert.Equal(t, EventNewMessage, env.Event)
}

func TestRelaySelfMessageArrivesTwicePerSession(t *testing.T) {
	hub, url := startTestServer(t, HubConfig{})

	tabs := []*websocket.Conn{dial(t, url+"?userId=alice"), dial(t, url+"?userId=alice")}
	waitForSessions(t, hub, "alice", 2)

	sendEvent(t, tabs[0], EventSendMessage, map[string]string{"sender_id": "alice", "recipient_id": "alice"})

	for _, conn := range tabs {
		assert.Equal(t, EventNewMessage, readEvent(t, conn).Event)
		assert.Equal(t, EventNewMessage, readEvent(t, conn).Event)
	}
	assert.Eventually(t, func() bool {
		return hub.Metrics().Deliveries.Load() == 4
	}, time.Second, 10*time.Millisecond)
}

func TestRelayDisconnectLeavesRegistry(t *testing.T) {
	hub, url := startTestServer(t, HubConfig{})

	first := dial(t, url+"?userId=bob")
	second := dial(t, url+"?userId=bob")
	waitForSessions(t, hub, "bob", 2)

	require.NoError(t, first.Close())
	waitForSessions(t, hub, "bob", 1)

	alice := dial(t, url+"?userId=alice")
	waitForSessions(t, hub, "alice", 1)
	sendEvent(t, alice, EventSendMessage, map[string]string{"sender_id": "alice", "recipient_id": "bob"})

	assert.Equal(t, EventNewMessage, readEvent(t, second).Event)
	require.Eventually(t, func() bool {
		return hub.Stats().Metrics.Disconnects == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRelayRejectsDisallowedOrigin(t *testing.T) {
	_, url := startTestServer(t, HubConfig{AllowedOrigins: []string{"https://app.example.com"}})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://app.example.com")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}
