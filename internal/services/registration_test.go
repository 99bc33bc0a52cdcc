package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"joyland-backend/internal/models"
)

// Submit's validation runs before any storage or AI work, so a service wired
// with nil dependencies exercises it safely.
func TestRegistrationSubmit_Validation(t *testing.T) {
	svc := &RegistrationService{}

	tests := []struct {
		name  string
		input models.RegistrationInput
		field string
	}{
		{"unknown user type", models.RegistrationInput{UserType: "alien", FirstName: "A", Email: "a@b.c", Agree: true}, "user_type"},
		{"missing first name", models.RegistrationInput{UserType: "student", Email: "a@b.c", Agree: true}, "first_name"},
		{"missing email", models.RegistrationInput{UserType: "teacher", FirstName: "A", Agree: true}, "email"},
		{"terms not accepted", models.RegistrationInput{UserType: "parent", FirstName: "A", Email: "a@b.c"}, "agree"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.input)
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

func TestFormatInsights(t *testing.T) {
	insights := models.ApplicantInsights{
		RecommendedClassLevel: "Grade 4",
		LearningStyle:         "Visual",
		AcademicInterests:     []string{"Mathematics", "Music"},
		SupportNeeds:          []string{"Extra reading time"},
	}

	notes := FormatInsights(insights)
	for _, want := range []string{
		"AI Analysis Results:",
		"Recommended Level: Grade 4",
		"Learning Style: Visual",
		"- Mathematics",
		"- Music",
		"Support Considerations:",
		"- Extra reading time",
	} {
		if !strings.Contains(notes, want) {
			t.Fatalf("notes missing %q:\n%s", want, notes)
		}
	}
}

func TestFormatInsights_ManualReviewDefault(t *testing.T) {
	notes := FormatInsights(models.ManualReviewInsights())
	if !strings.Contains(notes, "Needs manual review") {
		t.Fatalf("expected manual-review marker in notes:\n%s", notes)
	}
	if !strings.Contains(notes, "Unable to determine") {
		t.Fatalf("expected learning-style fallback in notes:\n%s", notes)
	}
}

func TestGeneratePassword_NonEmptyAndVaries(t *testing.T) {
	a := GeneratePassword()
	b := GeneratePassword()
	if a == "" || b == "" {
		t.Fatal("generated password must not be empty")
	}
	if a == b {
		t.Fatalf("two generated passwords should differ: %q", a)
	}
}
