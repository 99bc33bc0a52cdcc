package services

import (
	"strings"

	"joyland-backend/internal/models"
)

// Parsers for free-text model output. They all follow the same policy: input
// is a sequence of lines, a small fixed set of labels is recognized, and
// anything that doesn't fit the grammar is skipped. The worst case is an
// empty result, never an error.
//
// The term-plan and assessment parsers are record-oriented: a blank line
// emits the accumulated record when its mandatory field is set, and list
// fields only accept "-" bullets after their label has introduced them. The
// progress and activities parsers use a different sub-grammar: case-
// insensitive section headings switch which bucket subsequent bullets land
// in, with no per-record separation.

// ParseTermPlan extracts learning objectives from lines of the form
// "Description: ...", "Skills: a, b", "Assessment:" followed by bullets.
// Records without a description are dropped.
func ParseTermPlan(text string) []models.LearningObjective {
	var objectives []models.LearningObjective
	var cur models.LearningObjective

	emit := func() {
		if cur.Description != "" {
			objectives = append(objectives, cur)
			cur = models.LearningObjective{}
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			emit()
		case strings.HasPrefix(line, "Description:"):
			cur.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		case strings.HasPrefix(line, "Skills:"):
			cur.Skills = splitCommaList(strings.TrimPrefix(line, "Skills:"))
		case strings.HasPrefix(line, "Assessment:"):
			// Introduces the criteria list; bullets before this are ignored.
			cur.AssessmentCriteria = []string{}
		case strings.HasPrefix(line, "-") && cur.AssessmentCriteria != nil:
			cur.AssessmentCriteria = append(cur.AssessmentCriteria, stripBullet(line))
		}
	}
	// Trailing record without a final blank line still counts.
	emit()

	return objectives
}

// ParseAssessmentItems extracts assessment items. "Question:" is mandatory;
// "Rubric:" introduces "- score: criteria" bullets; "Sample:" sets the
// sample answer. Rubric bullets without a colon are skipped.
func ParseAssessmentItems(text string) []models.AssessmentItem {
	var items []models.AssessmentItem
	cur := models.AssessmentItem{MaxScore: 5}

	emit := func() {
		if cur.Question != "" {
			items = append(items, cur)
			cur = models.AssessmentItem{MaxScore: 5}
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			emit()
		case strings.HasPrefix(line, "Question:"):
			cur.Question = strings.TrimSpace(strings.TrimPrefix(line, "Question:"))
		case strings.HasPrefix(line, "Rubric:"):
			cur.Rubric = map[string]string{}
		case strings.HasPrefix(line, "Sample:"):
			sample := strings.TrimSpace(strings.TrimPrefix(line, "Sample:"))
			cur.SampleAnswer = &sample
		case strings.HasPrefix(line, "-") && cur.Rubric != nil:
			score, criteria, ok := strings.Cut(stripBullet(line), ":")
			if ok {
				cur.Rubric[strings.TrimSpace(score)] = strings.TrimSpace(criteria)
			}
		}
	}
	emit()

	return items
}

// ParseProgressAnalysis sorts bullets into mastered / growth /
// recommendation buckets. Section headings match case-insensitively by
// prefix; bullets before any heading are ignored.
func ParseProgressAnalysis(text string) (mastered, growth, recommendations []string) {
	mastered = []string{}
	growth = []string{}
	recommendations = []string{}

	var active *[]string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "mastered"):
			active = &mastered
		case strings.HasPrefix(lower, "growth"):
			active = &growth
		case strings.HasPrefix(lower, "recommend"):
			active = &recommendations
		case strings.HasPrefix(line, "-") && active != nil:
			*active = append(*active, stripBullet(line))
		}
	}
	return mastered, growth, recommendations
}

// ParseActivities sorts bullets into the three differentiation levels, using
// the same heading-switched sub-grammar as ParseProgressAnalysis.
func ParseActivities(text string) map[string][]string {
	activities := map[string][]string{
		"support":   {},
		"standard":  {},
		"extension": {},
	}

	var active string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "support"):
			active = "support"
		case strings.HasPrefix(lower, "standard"):
			active = "standard"
		case strings.HasPrefix(lower, "extension"):
			active = "extension"
		case strings.HasPrefix(line, "-") && active != "":
			activities[active] = append(activities[active], stripBullet(line))
		}
	}
	return activities
}

// ParseApplicantInsights extracts the structured review of a student
// application. The class-level and learning-style lines carry their value
// inline after a colon; the interests and support sections collect bullets.
func ParseApplicantInsights(text string) models.ApplicantInsights {
	insights := models.ApplicantInsights{
		AcademicInterests: []string{},
		SupportNeeds:      []string{},
	}

	var active *[]string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "recommend"):
			active = nil
			insights.RecommendedClassLevel = labelValue(line)
		case strings.HasPrefix(lower, "learning style"):
			active = nil
			insights.LearningStyle = labelValue(line)
		case strings.HasPrefix(lower, "academic"):
			active = &insights.AcademicInterests
		case strings.HasPrefix(lower, "support"):
			active = &insights.SupportNeeds
		case strings.HasPrefix(line, "-") && active != nil:
			*active = append(*active, stripBullet(line))
		}
	}
	return insights
}

// labelValue returns the text after the first colon, or the whole line when
// there is none.
func labelValue(line string) string {
	if _, value, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(value)
	}
	return line
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func stripBullet(line string) string {
	return strings.TrimLeft(line, "- ")
}
