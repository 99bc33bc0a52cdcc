package services

import (
	"strings"
	"testing"
)

func TestParseTermPlan_TwoObjectives(t *testing.T) {
	text := strings.Join([]string{
		"Description: Understand equivalent fractions",
		"Skills: comparing, simplifying",
		"Assessment:",
		"- Identifies equivalent pairs",
		"- Simplifies to lowest terms",
		"",
		"Description: Convert fractions to decimals",
		"Skills: division, place value",
		"Assessment:",
		"- Converts halves and quarters accurately",
	}, "\n")

	objectives := ParseTermPlan(text)
	if len(objectives) != 2 {
		t.Fatalf("expected 2 objectives, got %d", len(objectives))
	}

	first := objectives[0]
	if first.Description != "Understand equivalent fractions" {
		t.Fatalf("unexpected description: %q", first.Description)
	}
	if len(first.Skills) != 2 || first.Skills[0] != "comparing" || first.Skills[1] != "simplifying" {
		t.Fatalf("unexpected skills: %v", first.Skills)
	}
	if len(first.AssessmentCriteria) != 2 {
		t.Fatalf("expected 2 criteria, got %v", first.AssessmentCriteria)
	}

	// Trailing record without a final blank line still counts.
	second := objectives[1]
	if second.Description != "Convert fractions to decimals" {
		t.Fatalf("unexpected description: %q", second.Description)
	}
	if len(second.AssessmentCriteria) != 1 || second.AssessmentCriteria[0] != "Converts halves and quarters accurately" {
		t.Fatalf("unexpected criteria: %v", second.AssessmentCriteria)
	}
}

func TestParseTermPlan_GarbageInput(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "\n\n   \n"},
		{"prose", "The model apologises and refuses to answer in the requested format."},
		{"bullets without labels", "- orphan one\n- orphan two"},
		{"skills without description", "Skills: a, b\n\nSkills: c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseTermPlan(tc.text); len(got) != 0 {
				t.Fatalf("expected no objectives, got %v", got)
			}
		})
	}
}

func TestParseTermPlan_BulletsBeforeLabelIgnored(t *testing.T) {
	text := strings.Join([]string{
		"Description: Measure angles with a protractor",
		"- this bullet precedes the Assessment label",
		"Assessment:",
		"- Reads the correct scale",
	}, "\n")

	objectives := ParseTermPlan(text)
	if len(objectives) != 1 {
		t.Fatalf("expected 1 objective, got %d", len(objectives))
	}
	got := objectives[0].AssessmentCriteria
	if len(got) != 1 || got[0] != "Reads the correct scale" {
		t.Fatalf("unexpected criteria: %v", got)
	}
}

func TestParseAssessmentItems_FullItem(t *testing.T) {
	text := strings.Join([]string{
		"Question: Explain why 1/2 and 2/4 are equivalent.",
		"Rubric:",
		"- 3: Complete explanation with a model",
		"- 1: Restates the question",
		"- malformed bullet with no score",
		"Sample: They name the same point on a number line.",
	}, "\n")

	items := ParseAssessmentItems(text)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Question != "Explain why 1/2 and 2/4 are equivalent." {
		t.Fatalf("unexpected question: %q", item.Question)
	}
	if item.MaxScore != 5 {
		t.Fatalf("expected default max score 5, got %d", item.MaxScore)
	}
	if len(item.Rubric) != 2 {
		t.Fatalf("expected malformed bullet skipped, rubric: %v", item.Rubric)
	}
	if item.Rubric["3"] != "Complete explanation with a model" {
		t.Fatalf("unexpected rubric entry: %v", item.Rubric)
	}
	if item.SampleAnswer == nil || *item.SampleAnswer != "They name the same point on a number line." {
		t.Fatalf("unexpected sample answer: %v", item.SampleAnswer)
	}
}

func TestParseAssessmentItems_QuestionMandatory(t *testing.T) {
	text := "Rubric:\n- 2: something\n\nSample: orphan sample\n"
	if got := ParseAssessmentItems(text); len(got) != 0 {
		t.Fatalf("expected no items without a question, got %v", got)
	}
}

func TestParseProgressAnalysis_Buckets(t *testing.T) {
	text := strings.Join([]string{
		"MASTERED OBJECTIVES",
		"- Addition with regrouping",
		"Growth areas:",
		"- Word problems",
		"- Estimation",
		"Recommendations",
		"- Daily estimation warm-ups",
	}, "\n")

	mastered, growth, recs := ParseProgressAnalysis(text)
	if len(mastered) != 1 || mastered[0] != "Addition with regrouping" {
		t.Fatalf("unexpected mastered: %v", mastered)
	}
	if len(growth) != 2 {
		t.Fatalf("unexpected growth: %v", growth)
	}
	if len(recs) != 1 || recs[0] != "Daily estimation warm-ups" {
		t.Fatalf("unexpected recommendations: %v", recs)
	}
}

func TestParseProgressAnalysis_EmptyBucketsNotNil(t *testing.T) {
	mastered, growth, recs := ParseProgressAnalysis("no structure here at all")
	if mastered == nil || growth == nil || recs == nil {
		t.Fatalf("buckets must be empty slices, got %v %v %v", mastered, growth, recs)
	}
	if len(mastered)+len(growth)+len(recs) != 0 {
		t.Fatalf("expected empty buckets, got %v %v %v", mastered, growth, recs)
	}
}

func TestParseProgressAnalysis_BulletBeforeHeadingIgnored(t *testing.T) {
	mastered, growth, recs := ParseProgressAnalysis("- floating bullet\nmastered:\n- counted")
	if len(mastered) != 1 || mastered[0] != "counted" {
		t.Fatalf("unexpected mastered: %v", mastered)
	}
	if len(growth) != 0 || len(recs) != 0 {
		t.Fatalf("expected other buckets empty, got %v %v", growth, recs)
	}
}

func TestParseActivities_AllLevelsPresent(t *testing.T) {
	text := strings.Join([]string{
		"Support activities",
		"- Fraction strips with a partner",
		"Standard",
		"- Independent worksheet",
		"EXTENSION:",
		"- Design a fraction game",
	}, "\n")

	activities := ParseActivities(text)
	for _, level := range []string{"support", "standard", "extension"} {
		if _, ok := activities[level]; !ok {
			t.Fatalf("missing level %q in %v", level, activities)
		}
		if len(activities[level]) != 1 {
			t.Fatalf("expected 1 activity for %q, got %v", level, activities[level])
		}
	}
}

func TestParseActivities_GarbageKeepsAllKeys(t *testing.T) {
	activities := ParseActivities("")
	if len(activities) != 3 {
		t.Fatalf("expected 3 level keys, got %v", activities)
	}
	for level, acts := range activities {
		if acts == nil || len(acts) != 0 {
			t.Fatalf("expected empty slice for %q, got %v", level, acts)
		}
	}
}

func TestParseApplicantInsights(t *testing.T) {
	text := strings.Join([]string{
		"Recommended class level: Grade 4",
		"Learning style: Visual",
		"Academic interests:",
		"- Mathematics",
		"- Music",
		"Support needs:",
		"- Extra reading time",
	}, "\n")

	insights := ParseApplicantInsights(text)
	if insights.RecommendedClassLevel != "Grade 4" {
		t.Fatalf("unexpected class level: %q", insights.RecommendedClassLevel)
	}
	if insights.LearningStyle != "Visual" {
		t.Fatalf("unexpected learning style: %q", insights.LearningStyle)
	}
	if len(insights.AcademicInterests) != 2 || insights.AcademicInterests[1] != "Music" {
		t.Fatalf("unexpected interests: %v", insights.AcademicInterests)
	}
	if len(insights.SupportNeeds) != 1 || insights.SupportNeeds[0] != "Extra reading time" {
		t.Fatalf("unexpected support needs: %v", insights.SupportNeeds)
	}
}
