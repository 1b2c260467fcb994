package api

import (
	"net/http"

	"github.com/okian/predboard/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "predboard_session"

// SessionProvider resolves a session id, creating a session when the id is
// unknown.
type SessionProvider interface {
	Session(id string) (*session.State, bool)
}

// currentSession returns the caller's session and refreshes the cookie when
// a new one was issued.
func currentSession(w http.ResponseWriter, r *http.Request, p SessionProvider) *session.State {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	st, created := p.Session(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    st.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return st
}
