package services

import (
	"context"
	"errors"
	"testing"

	"joyland-backend/internal/models"
)

// The validation paths below return before any repository or redis access, so
// a zero-value service exercises them.

func TestAuthLogin_ValidationBeforeLookup(t *testing.T) {
	svc := &AuthService{}

	tests := []struct {
		name  string
		req   models.LoginRequest
		field string
	}{
		{"missing username", models.LoginRequest{Password: "secret"}, "username"},
		{"missing password", models.LoginRequest{Username: "mrs-okafor"}, "password"},
		{"whitespace username", models.LoginRequest{Username: "   ", Password: "secret"}, "username"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q flagged, got %v", tc.field, vErr.Fields)
			}
		})
	}
}

func TestAuthStudentAccess_RequiresEitherNumber(t *testing.T) {
	svc := &AuthService{}

	_, err := svc.StudentAccess(context.Background(), models.StudentAccessRequest{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = svc.StudentAccess(context.Background(), models.StudentAccessRequest{
		AdmissionNumber:  "   ",
		AssessmentNumber: "",
	})
	if !errors.As(err, &vErr) {
		t.Fatalf("whitespace numbers must not pass validation, got %v", err)
	}
}

func TestAuthRefresh_EmptyTokenRejected(t *testing.T) {
	svc := &AuthService{}

	_, err := svc.Refresh(context.Background(), "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
