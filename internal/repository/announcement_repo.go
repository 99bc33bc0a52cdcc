package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"joyland-backend/internal/models"
)

type AnnouncementRepo struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepo(pool *pgxpool.Pool) *AnnouncementRepo {
	return &AnnouncementRepo{pool: pool}
}

const announcementColumns = `id, title, message, is_active, priority, created_at`

func scanAnnouncements(rows pgx.Rows) ([]models.Announcement, error) {
	defer rows.Close()
	var out []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.IsActive, &a.Priority, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActiveForLanding returns the five highest-priority active announcements.
func (r *AnnouncementRepo) ActiveForLanding(ctx context.Context) ([]models.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE is_active
		ORDER BY priority, created_at DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	return scanAnnouncements(rows)
}

func (r *AnnouncementRepo) Archive(ctx context.Context) ([]models.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE NOT is_active
		ORDER BY priority, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanAnnouncements(rows)
}

func (r *AnnouncementRepo) ListAll(ctx context.Context) ([]models.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		ORDER BY priority, created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanAnnouncements(rows)
}

func (r *AnnouncementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id,
	).Scan(&a.ID, &a.Title, &a.Message, &a.IsActive, &a.Priority, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO announcements (id, title, message, is_active, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		a.ID, a.Title, a.Message, a.IsActive, a.Priority,
	).Scan(&a.CreatedAt)
}

func (r *AnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE announcements SET title = $1, message = $2, is_active = $3, priority = $4
		WHERE id = $5`,
		a.Title, a.Message, a.IsActive, a.Priority, a.ID,
	)
	return err
}

func (r *AnnouncementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM announcements WHERE id = $1", id)
	return err
}

// UnreadCounts computes the per-audience announcement counts shown on the
// landing page.
func (r *AnnouncementRepo) UnreadCounts(ctx context.Context) (models.UnreadCounts, error) {
	var counts models.UnreadCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_active AND created_at >= NOW() - INTERVAL '7 days'),
			COUNT(*) FILTER (WHERE is_active AND created_at >= NOW() - INTERVAL '30 days')
		FROM announcements`,
	).Scan(&counts.Teacher, &counts.Student, &counts.Parents)
	return counts, err
}
