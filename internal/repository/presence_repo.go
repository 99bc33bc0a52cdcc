package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PresenceRepo handles the two presence tables. Every write is a single-row
// upsert; concurrent requests for the same identifier collapse to one row
// with last writer wins on last_seen.
type PresenceRepo struct {
	pool *pgxpool.Pool
}

func NewPresenceRepo(pool *pgxpool.Pool) *PresenceRepo {
	return &PresenceRepo{pool: pool}
}

func (r *PresenceRepo) Upsert(ctx context.Context, identifier string, day, lastSeen time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO presence (identifier, date, last_seen)
		VALUES ($1, $2, $3)
		ON CONFLICT (identifier, date) DO UPDATE SET last_seen = EXCLUDED.last_seen`,
		identifier, day, lastSeen,
	)
	return err
}

// CountActiveSince counts identifiers whose last_seen falls within the
// trailing online window.
func (r *PresenceRepo) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM presence WHERE last_seen >= $1", since,
	).Scan(&count)
	return count, err
}

func (r *PresenceRepo) CountForDay(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM presence WHERE date = $1", day,
	).Scan(&count)
	return count, err
}

func (r *PresenceRepo) PeakForDay(ctx context.Context, day time.Time) (int, error) {
	var peak int
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(peak), 0) FROM daily_presence WHERE date = $1", day,
	).Scan(&peak)
	return peak, err
}

// RecordPeak raises the stored peak for the day, never lowering it. Racing
// writers are benign: GREATEST keeps the larger value either way.
func (r *PresenceRepo) RecordPeak(ctx context.Context, day time.Time, peak int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_presence (date, peak)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET peak = GREATEST(daily_presence.peak, EXCLUDED.peak)`,
		day, peak,
	)
	return err
}
