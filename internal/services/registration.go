package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"joyland-backend/internal/models"
	"joyland-backend/internal/repository"
)

// RegistrationService handles the request-to-account workflow: submission
// with optional AI applicant insights, admin review, and approval into a
// real user account.
type RegistrationService struct {
	repo       *repository.RegistrationRepo
	userRepo   *repository.UserRepo
	education  *EducationService
	auth       *AuthService
	email      *EmailService
	adminEmail string
}

func NewRegistrationService(
	repo *repository.RegistrationRepo,
	userRepo *repository.UserRepo,
	education *EducationService,
	auth *AuthService,
	email *EmailService,
	adminEmail string,
) *RegistrationService {
	return &RegistrationService{
		repo:       repo,
		userRepo:   userRepo,
		education:  education,
		auth:       auth,
		email:      email,
		adminEmail: adminEmail,
	}
}

var registrationUserTypes = map[string]bool{
	models.RegistrationStudent: true,
	models.RegistrationTeacher: true,
	models.RegistrationParent:  true,
}

// Submit validates and persists a registration request. Student requests get
// an AI review appended to the notes field; the analysis and the
// notification emails are both best-effort and never fail the submission.
func (s *RegistrationService) Submit(ctx context.Context, input models.RegistrationInput) (*models.RegistrationRequest, error) {
	fields := map[string]string{}
	if !registrationUserTypes[input.UserType] {
		fields["user_type"] = "Must be student, teacher or parent"
	}
	if strings.TrimSpace(input.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "Email is required"
	}
	if !input.Agree {
		fields["agree"] = "You must accept the terms"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	req := &models.RegistrationRequest{
		UserType:    input.UserType,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       strings.TrimSpace(input.Email),
		CountryCode: strings.TrimSpace(input.CountryCode),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		BirthMonth:  input.BirthMonth,
		BirthDay:    input.BirthDay,
		BirthYear:   input.BirthYear,
		HeardAbout:  strings.TrimSpace(input.HeardAbout),
		Agree:       input.Agree,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create registration request: %w", err)
	}

	if req.UserType == models.RegistrationStudent {
		insights := s.education.AnalyzeStudentApplication(ctx, input)
		req.Notes = FormatInsights(insights)
		if err := s.repo.UpdateNotes(ctx, req.ID, req.Notes); err != nil {
			log.Printf("registration: failed to store AI insights for %s: %v", req.ID, err)
		}
	}

	if err := s.email.NotifyAdminOfRegistration(s.adminEmail, req); err != nil {
		log.Printf("registration: failed to notify admin for %s: %v", req.ID, err)
	}
	if err := s.email.SendRegistrationReceived(req.Email); err != nil {
		log.Printf("registration: failed to send confirmation for %s: %v", req.ID, err)
	}

	return req, nil
}

// FormatInsights renders applicant insights into the reviewer-facing notes
// block stored on the request.
func FormatInsights(insights models.ApplicantInsights) string {
	lines := []string{
		"AI Analysis Results:",
		"Recommended Level: " + insights.RecommendedClassLevel,
		"Learning Style: " + insights.LearningStyle,
		"",
		"Academic Interests:",
	}
	for _, interest := range insights.AcademicInterests {
		lines = append(lines, "- "+interest)
	}
	lines = append(lines, "", "Support Considerations:")
	for _, need := range insights.SupportNeeds {
		lines = append(lines, "- "+need)
	}
	return strings.Join(lines, "\n")
}

func (s *RegistrationService) ListByStatus(ctx context.Context, status string) ([]models.RegistrationRequest, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Approve turns a pending request into a user account. Students also get a
// profile with a generated admission number. The applicant receives a
// one-time login link; email failure does not roll the approval back.
func (s *RegistrationService) Approve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Registration request not found"}
		}
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, &ConflictError{Message: "Request has already been reviewed"}
	}

	password := GeneratePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     usernameFor(req),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.UserType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if req.UserType == models.RegistrationStudent {
		profile := &models.StudentProfile{UserID: user.ID}
		if err := s.userRepo.CreateStudentProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create student profile: %w", err)
		}
	}

	if err := s.repo.UpdateStatus(ctx, req.ID, models.StatusApproved); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	token, err := s.auth.IssueOneTimeLogin(ctx, user.ID)
	if err != nil {
		log.Printf("registration: failed to issue one-time login for %s: %v", user.ID, err)
	} else if err := s.email.SendApprovalLogin(user.Email, user.FullName(), token); err != nil {
		log.Printf("registration: failed to send approval email for %s: %v", user.ID, err)
	}
	if err := s.email.SendWelcome(user.Email, user.FullName(), user.Username, password); err != nil {
		log.Printf("registration: failed to send welcome email for %s: %v", user.ID, err)
	}

	return user, nil
}

func (s *RegistrationService) Deny(ctx context.Context, id uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Registration request not found"}
		}
		return err
	}
	if req.Status != models.StatusPending {
		return &ConflictError{Message: "Request has already been reviewed"}
	}
	return s.repo.UpdateStatus(ctx, id, models.StatusDenied)
}

// usernameFor derives a username from the applicant's email local part, with
// a short random suffix to dodge collisions.
func usernameFor(req *models.RegistrationRequest) string {
	local := req.Email
	if at := strings.Index(local, "@"); at > 0 {
		local = local[:at]
	}
	local = strings.ToLower(local)
	return fmt.Sprintf("%s-%s", local, strings.ToLower(uuid.NewString()[:6]))
}

// GeneratePassword returns a short random credential for generated accounts.
// Holders are expected to change it on first login.
func GeneratePassword() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
