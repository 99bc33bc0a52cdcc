package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"joyland-backend/internal/models"
)

// EducationService wraps the AI boundary with curriculum-planning prompts,
// output parsing, and the response cache. The client is injected; the
// service owns nothing global.
type EducationService struct {
	ai    Completer
	cache *AICache
}

func NewEducationService(ai Completer, cache *AICache) *EducationService {
	return &EducationService{ai: ai, cache: cache}
}

// GenerateTermPlan produces the term's learning objectives, serving repeated
// identical requests for the same teacher from the cache.
func (s *EducationService) GenerateTermPlan(ctx context.Context, teacherID uuid.UUID, subject, gradeLevel string, term int, priorObjectives []string) ([]models.LearningObjective, bool, error) {
	if cached, ok := s.cache.GetTermPlan(ctx, teacherID, subject, gradeLevel, term); ok {
		return cached, true, nil
	}

	var prior strings.Builder
	if len(priorObjectives) == 0 {
		prior.WriteString("No prior objectives provided")
	} else {
		for _, obj := range priorObjectives {
			prior.WriteString("- " + obj + "\n")
		}
	}

	prompt := fmt.Sprintf(`Create a detailed term plan for %s (%s Grade, Term %d).

Previous Coverage:
%s

For each learning objective, provide:
1. Clear description
2. Key skills developed
3. Specific assessment criteria
4. Cross-curricular connections
5. Progressive difficulty alignment

Format each objective as:
Description: (clear learning outcome)
Skills: (comma-separated list)
Assessment: (bullet points)
`, subject, gradeLevel, term, prior.String())

	text, err := s.ai.Complete(ctx, prompt, 1000, 0.7)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate term plan: %w", err)
	}

	objectives := ParseTermPlan(text)
	s.cache.SetTermPlan(ctx, teacherID, subject, gradeLevel, term, objectives)
	return objectives, false, nil
}

// GenerateAssessment produces assessment items for a learning objective at a
// differentiation level, cached per teacher on a content hash of the
// objective text.
func (s *EducationService) GenerateAssessment(ctx context.Context, teacherID uuid.UUID, objective, assessmentType, level string) ([]models.AssessmentItem, bool, error) {
	if cached, ok := s.cache.GetAssessment(ctx, teacherID, objective, assessmentType, level); ok {
		return cached, true, nil
	}

	prompt := fmt.Sprintf(`Create %s assessment items for:
Objective: %s
Level: %s

For each question:
1. Clear, age-appropriate language
2. Specific skill assessment
3. Detailed scoring rubric
4. Sample answer/solution
5. Common misconception notes

Format each item as:
Question: (the question text)
Rubric:
- (score): (criteria)
Sample: (sample answer)

Create 3-5 questions that:
- Progress in difficulty
- Include different question types
- Allow demonstration of understanding
- Support meaningful feedback
`, assessmentType, objective, level)

	text, err := s.ai.Complete(ctx, prompt, 1000, 0.7)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate assessment: %w", err)
	}

	items := ParseAssessmentItems(text)
	s.cache.SetAssessment(ctx, teacherID, objective, assessmentType, level, items)
	return items, false, nil
}

// AnalyzeStudentProgress reviews a student's work in a subject. Results are
// not cached: the underlying assessment data changes between calls.
func (s *EducationService) AnalyzeStudentProgress(ctx context.Context, studentID, subject string) (*models.StudentProgress, error) {
	prompt := fmt.Sprintf(`Analyze the progress of student %s in %s over the current term:

Provide:
1. Mastered learning objectives
2. Areas needing development
3. Specific support recommendations
4. Next steps for extension
5. Learning strategy suggestions

Format the response with the headings "Mastered:", "Growth areas:" and
"Recommendations:", each followed by "-" bullet points.
`, studentID, subject)

	text, err := s.ai.Complete(ctx, prompt, 1000, 0.7)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze student progress: %w", err)
	}

	mastered, growth, recommendations := ParseProgressAnalysis(text)
	return &models.StudentProgress{
		StudentID:          studentID,
		Subject:            subject,
		ObjectivesMastered: mastered,
		AreasForGrowth:     growth,
		Recommendations:    recommendations,
	}, nil
}

// GenerateDifferentiatedActivities produces activities per differentiation
// level for one objective, shaped by the class's level distribution.
func (s *EducationService) GenerateDifferentiatedActivities(ctx context.Context, objective string, classProfile map[string]int) (map[string][]string, error) {
	var profile strings.Builder
	for _, level := range []string{"support", "standard", "extension"} {
		if count, ok := classProfile[level]; ok {
			fmt.Fprintf(&profile, "- %s: %d students\n", level, count)
		}
	}

	prompt := fmt.Sprintf(`Create differentiated activities for:
Objective: %s

Class Profile:
%s
For each level (support, standard, extension):
1. 2-3 specific activities
2. Success criteria
3. Required resources
4. Time estimation
5. Key teaching points

Format the response with the headings "Support:", "Standard:" and
"Extension:", each followed by "-" bullet points.

Ensure activities:
- Target same objective
- Vary in complexity
- Allow progression
- Support different learning styles
`, objective, profile.String())

	text, err := s.ai.Complete(ctx, prompt, 1500, 0.7)
	if err != nil {
		return nil, fmt.Errorf("failed to generate activities: %w", err)
	}

	return ParseActivities(text), nil
}

// AnalyzeStudentApplication reviews a student registration request. It never
// fails: if the AI call or parse yields nothing useful the manual-review
// default is returned so the admin always sees an actionable note.
func (s *EducationService) AnalyzeStudentApplication(ctx context.Context, input models.RegistrationInput) models.ApplicantInsights {
	birthYear := "Unknown"
	if input.BirthYear != nil {
		birthYear = fmt.Sprintf("%d", *input.BirthYear)
	}

	prompt := fmt.Sprintf(`Analyze this student registration data and provide educational insights:
Background: %s
Age: %s

Provide specific recommendations for:
1. Recommended class level and placement
2. Learning style indicators
3. Key academic interest areas
4. Potential support needs or areas for attention

Format the response with the lines "Recommended level: ..." and
"Learning style: ...", then the headings "Academic interests:" and
"Support needs:", each followed by "-" bullet points.
`, input.HeardAbout, birthYear)

	text, err := s.ai.Complete(ctx, prompt, 1000, 0.7)
	if err != nil {
		log.Printf("education: failed to analyze student application: %v", err)
		return models.ManualReviewInsights()
	}

	insights := ParseApplicantInsights(text)
	if insights.RecommendedClassLevel == "" && insights.LearningStyle == "" {
		return models.ManualReviewInsights()
	}
	return insights
}

// DraftAnnouncement asks the model for announcement copy. The draft is
// returned for editing, never published directly.
func (s *EducationService) DraftAnnouncement(ctx context.Context, topic, audience string, keyPoints []string) (string, error) {
	var points strings.Builder
	for _, p := range keyPoints {
		points.WriteString("- " + p + "\n")
	}

	prompt := fmt.Sprintf(`Create a school announcement:
Topic: %s
Audience: %s
Tone: professional
Key Points to Cover:
%s
Requirements:
1. Clear and concise language
2. Appropriate for %s
3. Include all key points
4. Maintain a professional tone
5. Include any relevant next steps or actions`, topic, audience, points.String(), audience)

	text, err := s.ai.Complete(ctx, prompt, 1000, 0.7)
	if err != nil {
		return "", fmt.Errorf("failed to draft announcement: %w", err)
	}
	return strings.TrimSpace(text), nil
}
