package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"joyland-backend/internal/middleware"
	"joyland-backend/internal/models"
	"joyland-backend/internal/repository"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	oneTimeTokenTTL = 48 * time.Hour
)

// AuthService covers both login paths: username/password for staff and
// parents, admission/assessment number lookup for students. Refresh and
// one-time login tokens live in redis.
type AuthService struct {
	userRepo *repository.UserRepo
	redis    *redis.Client
	jwtAuth  *middleware.JWTAuth
}

func NewAuthService(userRepo *repository.UserRepo, redisClient *redis.Client, jwtAuth *middleware.JWTAuth) *AuthService {
	return &AuthService{userRepo: userRepo, redis: redisClient, jwtAuth: jwtAuth}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "Username is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid username or password"}
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, &UnauthorizedError{Message: "Invalid username or password"}
	}

	if !user.IsActive {
		return nil, &ForbiddenError{Message: "Account is disabled"}
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)
	return s.issueTokens(ctx, user)
}

// StudentAccess logs a student in by admission or assessment number. Either
// field alone is enough; matching is case-insensitive.
func (s *AuthService) StudentAccess(ctx context.Context, req models.StudentAccessRequest) (*models.AuthTokens, error) {
	admission := strings.TrimSpace(req.AdmissionNumber)
	assessment := strings.TrimSpace(req.AssessmentNumber)
	if admission == "" && assessment == "" {
		return nil, &ValidationError{Fields: map[string]string{
			"admission_number": "Provide an admission or assessment number",
		}}
	}

	user, err := s.userRepo.GetStudentByNumbers(ctx, admission, assessment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "No matching student found"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &ForbiddenError{Message: "Account is disabled"}
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	if refreshToken == "" {
		return nil, &ValidationError{Fields: map[string]string{"refresh_token": "Refresh token is required"}}
	}

	userIDStr, err := s.redis.GetDel(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
		}
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid or expired refresh token"}
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken != "" {
		s.redis.Del(ctx, refreshKey(refreshToken))
	}
}

// IssueOneTimeLogin mints a single-use login token, emailed to approved
// applicants.
func (s *AuthService) IssueOneTimeLogin(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := s.redis.Set(ctx, oneTimeKey(token), userID.String(), oneTimeTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store one-time login token: %w", err)
	}
	return token, nil
}

// RedeemOneTimeLogin exchanges a one-time token for a session. The token is
// consumed even when the subsequent lookup fails.
func (s *AuthService) RedeemOneTimeLogin(ctx context.Context, token string) (*models.AuthTokens, error) {
	if token == "" {
		return nil, &ValidationError{Fields: map[string]string{"token": "Token is required"}}
	}

	userIDStr, err := s.redis.GetDel(ctx, oneTimeKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &UnauthorizedError{Message: "Invalid or expired link"}
		}
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired link"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid or expired link"}
		}
		return nil, err
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	access, err := s.jwtAuth.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.redis.Set(ctx, refreshKey(refresh), user.ID.String(), refreshTokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(accessTokenTTL.Seconds()),
		Role:         user.Role,
	}, nil
}

func refreshKey(token string) string { return "auth:refresh:" + token }
func oneTimeKey(token string) string { return "auth:one_time:" + token }

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }
