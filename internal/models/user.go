package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Parents authenticate like staff but only see the parent portal.
const (
	RoleSystemAdmin = "system_admin"
	RolePrincipal   = "principal"
	RoleTeacher     = "teacher"
	RoleParent      = "parent"
	RoleStudent     = "student"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// StudentProfile carries the numbers students log in with. The admission
// number is generated at creation and never changes.
type StudentProfile struct {
	UserID           uuid.UUID `json:"user_id"`
	AdmissionNumber  string    `json:"admission_number"`
	AssessmentNumber *string   `json:"assessment_number"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StudentAccessRequest struct {
	AdmissionNumber  string `json:"admission_number"`
	AssessmentNumber string `json:"assessment_number"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Role         string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	SendEmail bool   `json:"send_email"`
}
