// Package flash carries one-shot messages across a redirect in a signed cookie.
package flash

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "flash"

	KindSuccess = "success_msg"
	KindError   = "error_msg"
)

type Messages struct {
	Success []string
	Error   []string
}

func (m Messages) Empty() bool {
	return len(m.Success) == 0 && len(m.Error) == 0
}

type Store struct {
	store *sessions.CookieStore
}

func NewStore(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs}
}

// Add queues msg under kind. It must be called before the response header is written.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, kind, msg string) error {
	sess, err := s.store.Get(r, SessionName)
	if err != nil && sess == nil {
		return fmt.Errorf("load flash session: %w", err)
	}
	sess.AddFlash(msg, kind)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save flash session: %w", err)
	}
	return nil
}

// Pop drains every queued message. A tampered or expired cookie yields no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) Messages {
	var m Messages
	sess, err := s.store.Get(r, SessionName)
	if sess == nil {
		return m
	}
	if err != nil {
		sess.Options.MaxAge = -1
		_ = sess.Save(r, w)
		return m
	}

	m.Success = toStrings(sess.Flashes(KindSuccess))
	m.Error = toStrings(sess.Flashes(KindError))
	if m.Empty() {
		return m
	}
	_ = sess.Save(r, w)
	return m
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
