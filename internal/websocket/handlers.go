package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// newUpgrader accepts any origin when allowedOrigins is empty. Requests
// without an Origin header (non-browser clients) are always accepted.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return allowed[strings.TrimRight(origin, "/")]
		},
	}
}
