package websocket

import "sync"

// Session is one live connection as seen by the Registry and Router.
type Session interface {
	ID() string
	// Send queues an outbound frame. It must not block; an error means the
	// session is gone and should be dropped.
	Send(frame []byte) error
	Close()
}

type RegistryStats struct {
	Sessions int `json:"sessions"`
	Users    int `json:"users"`
}

// Registry maps user identifiers to the sessions that joined them.
type Registry struct {
	mu sync.RWMutex

	// user ID -> sessions joined under it
	byUser map[string]map[Session]struct{}

	// session -> user IDs it joined, so Leave never scans byUser
	bySession map[Session]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:    make(map[string]map[Session]struct{}),
		bySession: make(map[Session]map[string]struct{}),
	}
}

// Join associates s with userID. It reports whether a new association was
// made; empty ids and repeated joins are no-ops.
func (r *Registry) Join(s Session, userID string) bool {
	if s == nil || userID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.bySession[s]
	if _, ok := users[userID]; ok {
		return false
	}
	if users == nil {
		users = make(map[string]struct{})
		r.bySession[s] = users
	}
	users[userID] = struct{}{}

	sessions := r.byUser[userID]
	if sessions == nil {
		sessions = make(map[Session]struct{})
		r.byUser[userID] = sessions
	}
	sessions[s] = struct{}{}
	return true
}

// Leave removes s from every identifier it joined and returns those ids.
func (r *Registry) Leave(s Session) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.bySession[s]
	if !ok {
		return nil
	}
	delete(r.bySession, s)

	left := make([]string, 0, len(users))
	for userID := range users {
		if sessions := r.byUser[userID]; sessions != nil {
			delete(sessions, s)
			if len(sessions) == 0 {
				delete(r.byUser, userID)
			}
		}
		left = append(left, userID)
	}
	return left
}

// SessionsFor returns a snapshot of the live sessions joined under userID.
func (r *Registry) SessionsFor(userID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := r.byUser[userID]
	if len(sessions) == 0 {
		return nil
	}
	out := make([]Session, 0, len(sessions))
	for s := range sessions {
		out = append(out, s)
	}
	return out
}

// Identifiers returns the user ids s has joined.
func (r *Registry) Identifiers(s Session) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := r.bySession[s]
	out := make([]string, 0, len(users))
	for userID := range users {
		out = append(out, userID)
	}
	return out
}

func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RegistryStats{
		Sessions: len(r.bySession),
		Users:    len(r.byUser),
	}
}
