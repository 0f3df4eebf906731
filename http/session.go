package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"drybean/ml"
)

// SessionCookie names the cookie that carries the form session ID.
const SessionCookie = "drybean_session"

// Session is the per-browser form state. It is stored by value so concurrent requests
// never share a FeatureVector.
type Session struct {
	ID         string
	Values     ml.FeatureVector
	Prediction *ml.Prediction
}

// SessionStore keeps a bounded number of sessions, each expiring after ttl of inactivity.
type SessionStore struct {
	sessions *expirable.LRU[string, Session]
	ttl      time.Duration
}

func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: expirable.NewLRU[string, Session](size, nil, ttl),
		ttl:      ttl,
	}
}

// Load returns the request's session, or a fresh one with default values.
func (s *SessionStore) Load(r *http.Request) Session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}
	return Session{ID: uuid.NewString()}
}

// Save stores sess and sets its cookie on the response.
func (s *SessionStore) Save(w http.ResponseWriter, sess Session) {
	s.sessions.Add(sess.ID, sess)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}
