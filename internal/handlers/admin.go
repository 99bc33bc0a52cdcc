package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"joyland-backend/internal/models"
	"joyland-backend/internal/repository"
	"joyland-backend/internal/services"
)

// adminUserStore is the slice of repository.UserRepo the admin surface uses.
type adminUserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateStudentProfile(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// AdminHandler manages user accounts. Passwords are generated, never chosen
// by the admin, and only ever leave the system inside the welcome email.
type AdminHandler struct {
	userRepo     adminUserStore
	emailService *services.EmailService
}

func NewAdminHandler(userRepo adminUserStore, emailService *services.EmailService) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, emailService: emailService}
}

var assignableRoles = map[string]bool{
	models.RoleSystemAdmin: true,
	models.RolePrincipal:   true,
	models.RoleTeacher:     true,
	models.RoleParent:      true,
	models.RoleStudent:     true,
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load users", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "Username is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "Email is required"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["first_name"] = "First name is required"
	}
	if !assignableRoles[req.Role] {
		fields["role"] = "Unknown role"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	password := services.GeneratePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create user", r))
		return
	}

	user := &models.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if repository.IsUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Username or email already in use", r))
			return
		}
		log.Printf("admin: failed to create user: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create user", r))
		return
	}

	if user.Role == models.RoleStudent {
		profile := &models.StudentProfile{UserID: user.ID}
		if err := h.userRepo.CreateStudentProfile(r.Context(), profile); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create student profile", r))
			return
		}
	}

	if req.SendEmail {
		if err := h.emailService.SendWelcome(user.Email, user.FullName(), user.Username, password); err != nil {
			log.Printf("admin: failed to send welcome email for %s: %v", user.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid user ID", r))
		return
	}

	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete user", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
