package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const sessionKeyValue = "key"

// Sessions resolves the per-browser session key carried in a signed cookie.
type Sessions struct {
	store sessions.Store
	name  string
}

// NewSessions wraps a gorilla session store.
func NewSessions(store sessions.Store, name string) *Sessions {
	return &Sessions{store: store, name: name}
}

// Key returns the session key of r, or "" when the browser has none yet.
// A cookie that fails to decode is treated as absent.
func (s *Sessions) Key(r *http.Request) string {
	session, err := s.store.Get(r, s.name)
	if err != nil {
		return ""
	}
	key, _ := session.Values[sessionKeyValue].(string)
	return key
}

// NewKey returns a fresh session key.
func (s *Sessions) NewKey() string {
	return uuid.NewString()
}

// Save stores key in the session cookie. It must run before anything is
// written to w.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, key string) error {
	// Get returns a new session alongside a decode error, so the error is ignored.
	session, _ := s.store.Get(r, s.name)
	session.Values[sessionKeyValue] = key
	return session.Save(r, w)
}
