package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// sessionCookie names the anonymous-visitor cookie set so unauthenticated
// traffic can be counted too.
const sessionCookie = "jsid"

// PresenceRecorder is the slice of the presence service the tracker needs.
// Recording is expected to be best-effort and must never return an error to
// the request path.
type PresenceRecorder interface {
	Track(ctx context.Context, identifier string)
}

// PresenceTracker records visitor activity on every request. Authenticated
// visitors are tracked as "user:<id>" via a non-enforcing look at the bearer
// token; everyone else as "session:<key>" via a cookie created on first
// sight. When neither is obtainable the request is simply not tracked.
type PresenceTracker struct {
	presence PresenceRecorder
	jwt      *JWTAuth
}

func NewPresenceTracker(presence PresenceRecorder, jwt *JWTAuth) *PresenceTracker {
	return &PresenceTracker{presence: presence, jwt: jwt}
}

func (t *PresenceTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := ""
		if userID, ok := t.jwt.UserIDFromRequest(r); ok {
			identifier = "user:" + userID.String()
		} else if key := t.sessionKey(w, r); key != "" {
			identifier = "session:" + key
		}

		if identifier != "" {
			t.presence.Track(r.Context(), identifier)
		}

		next.ServeHTTP(w, r)
	})
}

// sessionKey returns the visitor's session key, minting a cookie when none
// exists yet.
func (t *PresenceTracker) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 14,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
