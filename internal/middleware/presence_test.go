package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type recordingPresence struct {
	identifiers []string
}

func (r *recordingPresence) Track(ctx context.Context, identifier string) {
	r.identifiers = append(r.identifiers, identifier)
}

func runTracked(t *testing.T, tracker *PresenceTracker, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handled := false
	tracker.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)
	if !handled {
		t.Fatal("middleware must always pass the request through")
	}
	return rr
}

func TestPresenceTracker_AuthenticatedUserTrackedByID(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	presence := &recordingPresence{}
	tracker := NewPresenceTracker(presence, jwtAuth)

	userID := uuid.New()
	token, err := jwtAuth.GenerateAccessToken(userID, "mrs-okafor", "teacher")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/landing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	runTracked(t, tracker, req)

	if len(presence.identifiers) != 1 {
		t.Fatalf("expected 1 track call, got %d", len(presence.identifiers))
	}
	if want := "user:" + userID.String(); presence.identifiers[0] != want {
		t.Fatalf("expected %q, got %q", want, presence.identifiers[0])
	}
}

func TestPresenceTracker_AnonymousVisitorGetsSessionCookie(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	presence := &recordingPresence{}
	tracker := NewPresenceTracker(presence, jwtAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/landing", nil)
	rr := runTracked(t, tracker, req)

	if len(presence.identifiers) != 1 || !strings.HasPrefix(presence.identifiers[0], "session:") {
		t.Fatalf("expected a session identifier, got %v", presence.identifiers)
	}

	var minted *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			minted = c
		}
	}
	if minted == nil || minted.Value == "" {
		t.Fatal("expected a session cookie to be minted")
	}
	if !minted.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
}

func TestPresenceTracker_ExistingCookieReused(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	presence := &recordingPresence{}
	tracker := NewPresenceTracker(presence, jwtAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/landing", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "existing-key"})
	rr := runTracked(t, tracker, req)

	if len(presence.identifiers) != 1 || presence.identifiers[0] != "session:existing-key" {
		t.Fatalf("expected existing session reused, got %v", presence.identifiers)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			t.Fatal("no new cookie should be minted when one exists")
		}
	}
}

func TestPresenceTracker_InvalidTokenFallsBackToSession(t *testing.T) {
	jwtAuth := NewJWTAuth("test-secret")
	presence := &recordingPresence{}
	tracker := NewPresenceTracker(presence, jwtAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/landing", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	runTracked(t, tracker, req)

	// A bad token must not break the request; the visitor is just anonymous.
	if len(presence.identifiers) != 1 || !strings.HasPrefix(presence.identifiers[0], "session:") {
		t.Fatalf("expected session fallback, got %v", presence.identifiers)
	}
}
