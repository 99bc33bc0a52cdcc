package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"joyland-backend/internal/models"
)

type mockCompleter struct {
	response string
	err      error
	calls    int
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	m.calls++
	return m.response, m.err
}

func newTestEducation(ai *mockCompleter, cacheEnabled bool) *EducationService {
	cache := &AICache{store: newMemoryKV(), ttl: time.Hour, enabled: cacheEnabled}
	return NewEducationService(ai, cache)
}

func TestGenerateTermPlan_SecondCallServedFromCache(t *testing.T) {
	ai := &mockCompleter{response: "Description: Count to 100\nSkills: counting\n"}
	svc := newTestEducation(ai, true)
	teacherID := uuid.New()
	ctx := context.Background()

	first, cached, err := svc.GenerateTermPlan(ctx, teacherID, "Mathematics", "Grade 1", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("first call must not report a cache hit")
	}
	if len(first) != 1 || first[0].Description != "Count to 100" {
		t.Fatalf("unexpected objectives: %v", first)
	}

	second, cached, err := svc.GenerateTermPlan(ctx, teacherID, "Mathematics", "Grade 1", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Fatal("second identical call must hit the cache")
	}
	if len(second) != 1 || second[0].Description != first[0].Description {
		t.Fatalf("cached value differs: %v", second)
	}
	if ai.calls != 1 {
		t.Fatalf("expected exactly 1 AI call, got %d", ai.calls)
	}
}

func TestGenerateTermPlan_CacheDisabledAlwaysComputes(t *testing.T) {
	ai := &mockCompleter{response: "Description: Count to 100\n"}
	svc := newTestEducation(ai, false)
	teacherID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, cached, err := svc.GenerateTermPlan(ctx, teacherID, "Mathematics", "Grade 1", 1, nil); err != nil || cached {
			t.Fatalf("call %d: cached=%v err=%v", i, cached, err)
		}
	}
	if ai.calls != 2 {
		t.Fatalf("expected 2 AI calls with cache disabled, got %d", ai.calls)
	}
}

func TestGenerateTermPlan_AIFailurePropagates(t *testing.T) {
	ai := &mockCompleter{err: errors.New("model unavailable")}
	svc := newTestEducation(ai, true)

	_, _, err := svc.GenerateTermPlan(context.Background(), uuid.New(), "Science", "Grade 2", 1, nil)
	if err == nil {
		t.Fatal("expected error when the AI call fails")
	}
}

func TestGenerateAssessment_CachedPerObjective(t *testing.T) {
	ai := &mockCompleter{response: "Question: What is 2+2?\nRubric:\n- 1: Correct answer\n"}
	svc := newTestEducation(ai, true)
	teacherID := uuid.New()
	ctx := context.Background()

	if _, cached, err := svc.GenerateAssessment(ctx, teacherID, "basic addition", "quiz", "standard"); err != nil || cached {
		t.Fatalf("first call: cached=%v err=%v", cached, err)
	}
	if _, cached, err := svc.GenerateAssessment(ctx, teacherID, "basic addition", "quiz", "standard"); err != nil || !cached {
		t.Fatalf("second call: cached=%v err=%v", cached, err)
	}
	// A different objective is a different entry.
	if _, cached, err := svc.GenerateAssessment(ctx, teacherID, "basic subtraction", "quiz", "standard"); err != nil || cached {
		t.Fatalf("third call: cached=%v err=%v", cached, err)
	}
	if ai.calls != 2 {
		t.Fatalf("expected 2 AI calls, got %d", ai.calls)
	}
}

func TestAnalyzeStudentProgress_NeverCached(t *testing.T) {
	ai := &mockCompleter{response: "Mastered:\n- Counting\nGrowth areas:\n- Shapes\nRecommendations:\n- Practice\n"}
	svc := newTestEducation(ai, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		progress, err := svc.AnalyzeStudentProgress(ctx, "AD-12345678", "Mathematics")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(progress.ObjectivesMastered) != 1 || len(progress.AreasForGrowth) != 1 {
			t.Fatalf("unexpected progress: %+v", progress)
		}
	}
	if ai.calls != 2 {
		t.Fatalf("progress analysis must not cache, got %d calls", ai.calls)
	}
}

func TestAnalyzeStudentApplication_FailureFallsBackToManualReview(t *testing.T) {
	ai := &mockCompleter{err: errors.New("model unavailable")}
	svc := newTestEducation(ai, true)

	insights := svc.AnalyzeStudentApplication(context.Background(), models.RegistrationInput{
		UserType:  models.RegistrationStudent,
		FirstName: "Amina",
		Email:     "amina@example.com",
		Agree:     true,
	})
	if insights.RecommendedClassLevel != "Needs manual review" {
		t.Fatalf("expected manual-review default, got %+v", insights)
	}
	if insights.AcademicInterests == nil || insights.SupportNeeds == nil {
		t.Fatal("default insights must carry empty slices, not nil")
	}
}

func TestAnalyzeStudentApplication_UnparseableOutputFallsBack(t *testing.T) {
	ai := &mockCompleter{response: "I am sorry, I cannot help with that."}
	svc := newTestEducation(ai, true)

	insights := svc.AnalyzeStudentApplication(context.Background(), models.RegistrationInput{})
	if insights.RecommendedClassLevel != "Needs manual review" {
		t.Fatalf("expected manual-review default, got %+v", insights)
	}
}

func TestAnalyzeStudentApplication_ParsesStructuredOutput(t *testing.T) {
	ai := &mockCompleter{response: strings.Join([]string{
		"Recommended level: Grade 4",
		"Learning style: Kinesthetic",
		"Academic interests:",
		"- Science",
		"Support needs:",
		"- None noted",
	}, "\n")}
	svc := newTestEducation(ai, true)

	insights := svc.AnalyzeStudentApplication(context.Background(), models.RegistrationInput{})
	if insights.RecommendedClassLevel != "Grade 4" || insights.LearningStyle != "Kinesthetic" {
		t.Fatalf("unexpected insights: %+v", insights)
	}
	if len(insights.AcademicInterests) != 1 || len(insights.SupportNeeds) != 1 {
		t.Fatalf("unexpected bullet buckets: %+v", insights)
	}
}
