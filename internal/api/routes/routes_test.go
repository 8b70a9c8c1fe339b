package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat-relay/internal/api/middleware"
	"chat-relay/internal/websocket"
	"chat-relay/pkg/logger"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type denyAll struct{}

func (denyAll) CheckRateLimit(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func newTestRouter(t *testing.T, opts RouterOptions) (*websocket.Hub, *httptest.Server) {
	t.Helper()

	hub := websocket.NewHub(websocket.HubConfig{}, logger.Discard())
	go hub.Run()

	router := NewRouter(hub, logger.Discard(), opts)
	router.SetupRoutes()

	server := httptest.NewServer(router.GetEngine())
	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})
	return hub, server
}

func TestHealth(t *testing.T) {
	_, server := newTestRouter(t, RouterOptions{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestWebSocketRouteAndStats(t *testing.T) {
	hub, server := newTestRouter(t, RouterOptions{})
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	for _, path := range []string{"/ws?userId=alice", "/api/v1/ws?userId=alice"} {
		conn, _, err := gorilla.DefaultDialer.Dial(wsURL+path, nil)
		require.NoError(t, err, path)
		defer conn.Close()
	}

	require.Eventually(t, func() bool {
		return len(hub.Registry().SessionsFor("alice")) == 2
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(server.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats websocket.HubStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Registry.Users)
	assert.Equal(t, 2, stats.Registry.Sessions)
	assert.Equal(t, int64(2), stats.Metrics.ActiveConnections)
}

func TestWebSocketRateLimited(t *testing.T) {
	rl := middleware.NewRateLimitMiddleware(denyAll{}, logger.Discard().Logger)
	_, server := newTestRouter(t, RouterOptions{RateLimit: rl, RateLimitN: 1, RateWindow: time.Minute})
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := gorilla.DefaultDialer.Dial(wsURL+"/ws?userId=alice", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// stats stay reachable
	statsResp, err := http.Get(server.URL + "/api/v1/stats")
	require.NoError(t, err)
	statsResp.Body.Close()
	assert.Equal(t, http.StatusOK, statsResp.StatusCode)
}

func TestSwaggerDocs(t *testing.T) {
	_, server := newTestRouter(t, RouterOptions{})

	resp, err := http.Get(server.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(t, doc["paths"], "/ws")
}
