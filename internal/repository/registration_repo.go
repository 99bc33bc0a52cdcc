package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"joyland-backend/internal/models"
)

type RegistrationRepo struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepo(pool *pgxpool.Pool) *RegistrationRepo {
	return &RegistrationRepo{pool: pool}
}

const registrationColumns = `id, user_type, first_name, last_name, email, country_code, phone, address,
	birth_month, birth_day, birth_year, heard_about, agree, notes, status, created_at`

func scanRegistration(row interface{ Scan(...any) error }) (*models.RegistrationRequest, error) {
	req := &models.RegistrationRequest{}
	err := row.Scan(
		&req.ID, &req.UserType, &req.FirstName, &req.LastName, &req.Email,
		&req.CountryCode, &req.Phone, &req.Address,
		&req.BirthMonth, &req.BirthDay, &req.BirthYear,
		&req.HeardAbout, &req.Agree, &req.Notes, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RegistrationRepo) Create(ctx context.Context, req *models.RegistrationRequest) error {
	req.ID = uuid.New()
	req.Status = models.StatusPending
	return r.pool.QueryRow(ctx, `
		INSERT INTO registration_requests
			(id, user_type, first_name, last_name, email, country_code, phone, address,
			 birth_month, birth_day, birth_year, heard_about, agree, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`,
		req.ID, req.UserType, req.FirstName, req.LastName, req.Email,
		req.CountryCode, req.Phone, req.Address,
		req.BirthMonth, req.BirthDay, req.BirthYear,
		req.HeardAbout, req.Agree, req.Notes, req.Status,
	).Scan(&req.CreatedAt)
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RegistrationRequest, error) {
	return scanRegistration(r.pool.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registration_requests WHERE id = $1`, id))
}

// ListByStatus returns requests newest first; an empty status means all.
func (r *RegistrationRepo) ListByStatus(ctx context.Context, status string) ([]models.RegistrationRequest, error) {
	query := `SELECT ` + registrationColumns + ` FROM registration_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RegistrationRequest
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *RegistrationRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	_, err := r.pool.Exec(ctx, "UPDATE registration_requests SET notes = $1 WHERE id = $2", notes, id)
	return err
}

func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE registration_requests SET status = $1 WHERE id = $2", status, id)
	return err
}
