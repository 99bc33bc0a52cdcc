package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RegistrationStudent = "student"
	RegistrationTeacher = "teacher"
	RegistrationParent  = "parent"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

type RegistrationRequest struct {
	ID          uuid.UUID `json:"id"`
	UserType    string    `json:"user_type"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	CountryCode string    `json:"country_code"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	BirthMonth  *int      `json:"birth_month"`
	BirthDay    *int      `json:"birth_day"`
	BirthYear   *int      `json:"birth_year"`
	HeardAbout  string    `json:"heard_about"`
	Agree       bool      `json:"agree"`
	Notes       string    `json:"notes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *RegistrationRequest) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

type RegistrationInput struct {
	UserType    string `json:"user_type"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	BirthMonth  *int   `json:"birth_month"`
	BirthDay    *int   `json:"birth_day"`
	BirthYear   *int   `json:"birth_year"`
	HeardAbout  string `json:"heard_about"`
	Agree       bool   `json:"agree"`
}

// ApplicantInsights is the structured result of the AI review of a student
// application. When analysis fails the zero-ish default below is used so a
// reviewer always sees something actionable.
type ApplicantInsights struct {
	RecommendedClassLevel string   `json:"recommended_class_level"`
	LearningStyle         string   `json:"learning_style"`
	AcademicInterests     []string `json:"academic_interests"`
	SupportNeeds          []string `json:"support_needs"`
}

// ManualReviewInsights is returned when the AI analysis is unavailable.
func ManualReviewInsights() ApplicantInsights {
	return ApplicantInsights{
		RecommendedClassLevel: "Needs manual review",
		LearningStyle:         "Unable to determine",
		AcademicInterests:     []string{},
		SupportNeeds:          []string{},
	}
}
