package server

import (
	"net/http"

	"github.com/leapstack-labs/leapnav/internal/session"
)

const (
	cookieName   = "leapnav"
	sessionIDKey = "sid"
)

// withSession attaches the caller's session to the request context,
// creating one when the cookie is missing or refers to an expired session.
// The cookie is re-issued on every request so its expiry slides along with
// the server-side idle timeout.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := s.sessionStore.Get(r, cookieName)
		if err != nil {
			s.logger.Debug("ignoring invalid session cookie", "error", err)
		}

		var sess *session.Session
		if id, ok := cookie.Values[sessionIDKey].(string); ok {
			sess, _ = s.sessions.Get(id)
		}
		if sess == nil {
			sess = s.sessions.Create()
			cookie.Values[sessionIDKey] = sess.ID()
		}
		if err := cookie.Save(r, w); err != nil {
			s.logger.Error("failed to save session cookie", "error", err)
			http.Error(w, "session error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// logout ends the caller's session and clears the cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		s.sessions.Expire(sess.ID())
	}

	cookie, _ := s.sessionStore.Get(r, cookieName)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(r, w); err != nil {
		s.logger.Error("failed to clear session cookie", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
