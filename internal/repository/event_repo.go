package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"joyland-backend/internal/models"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Upcoming returns public events starting now or later, soonest first.
func (r *EventRepo) Upcoming(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, start_at, end_at, location, is_public, created_at
		FROM events
		WHERE is_public AND start_at >= NOW()
		ORDER BY start_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.Location, &e.IsPublic, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
