package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"joyland-backend/internal/models"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// as opposed to the database being unreachable or some other failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role, is_active, created_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Role, user.IsActive,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

func (r *UserRepo) CreateStudentProfile(ctx context.Context, profile *models.StudentProfile) error {
	if profile.AdmissionNumber == "" {
		profile.AdmissionNumber = GenerateAdmissionNumber()
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO student_profiles (user_id, admission_number, assessment_number) VALUES ($1, $2, $3)",
		profile.UserID, profile.AdmissionNumber, profile.AssessmentNumber,
	)
	return err
}

// GetStudentByNumbers looks a student up by admission or assessment number,
// either field matching case-insensitively.
func (r *UserRepo) GetStudentByNumbers(ctx context.Context, admissionNumber, assessmentNumber string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users u
		JOIN student_profiles sp ON sp.user_id = u.id
		WHERE ($1 <> '' AND LOWER(sp.admission_number) = LOWER($1))
		   OR ($2 <> '' AND LOWER(sp.assessment_number) = LOWER($2))
		LIMIT 1`,
		prefixColumns("u", userColumns))
	return scanUser(r.pool.QueryRow(ctx, query, admissionNumber, assessmentNumber))
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

// GenerateAdmissionNumber returns a fresh "AD-XXXXXXXX" admission number.
func GenerateAdmissionNumber() string {
	return "AD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
