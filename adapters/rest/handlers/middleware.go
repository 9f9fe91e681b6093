package handlers

import (
	"net/http"
	"time"

	"studytasks/pkg/auth"
)

const (
	sessionCookieName = "session"
	loginPath         = "/login"
)

// authedFunc is a handler that has already been resolved to a concrete
// identity. The identity travels as an explicit argument, never as hidden
// request state.
type authedFunc func(w http.ResponseWriter, r *http.Request, ident auth.Identity)

// requireAuth gates a route on a valid session cookie. Callers without one
// are sent to the login flow rather than given an error page.
func requireAuth(sessions *auth.Manager, next authedFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := sessionIdentity(r, sessions)
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next(w, r, ident)
	}
}

func sessionIdentity(r *http.Request, sessions *auth.Manager) (auth.Identity, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return auth.Identity{}, false
	}
	ident, err := sessions.Parse(c.Value)
	if err != nil {
		return auth.Identity{}, false
	}
	return ident, true
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
