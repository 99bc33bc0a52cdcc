package services

import (
	"context"
	"log"
	"time"

	"joyland-backend/internal/models"
)

// PresenceStore is the storage surface the tracker needs. It is implemented
// by repository.PresenceRepo.
type PresenceStore interface {
	Upsert(ctx context.Context, identifier string, day, lastSeen time.Time) error
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
	CountForDay(ctx context.Context, day time.Time) (int, error)
	PeakForDay(ctx context.Context, day time.Time) (int, error)
	RecordPeak(ctx context.Context, day time.Time, peak int) error
}

// PresenceService maintains an approximate count of active visitors and a
// per-day peak. All of it is advisory telemetry: every storage failure is
// logged and swallowed so tracking can never fail the request it instruments.
type PresenceService struct {
	store  PresenceStore
	window time.Duration
	now    func() time.Time
}

func NewPresenceService(store PresenceStore, window time.Duration) *PresenceService {
	return &PresenceService{store: store, window: window, now: time.Now}
}

// Track records activity for the identifier, then raises today's peak if the
// current online count exceeds it. A record that stops being refreshed ages
// out of the window naturally; there is no logout transition.
func (s *PresenceService) Track(ctx context.Context, identifier string) {
	if identifier == "" {
		return
	}

	now := s.now()
	day := dateOf(now)

	s.try("record presence", func() error {
		return s.store.Upsert(ctx, identifier, day, now)
	})

	var online int
	ok := s.try("count online", func() error {
		var err error
		online, err = s.store.CountActiveSince(ctx, now.Add(-s.window))
		return err
	})
	if !ok {
		return
	}

	var peak int
	if !s.try("read peak", func() error {
		var err error
		peak, err = s.store.PeakForDay(ctx, day)
		return err
	}) {
		return
	}

	if online > peak {
		// A racing writer may win with a lower count; the GREATEST in the
		// store keeps the peak monotonic, and a lost update only means a
		// slight undercount.
		s.try("record peak", func() error {
			return s.store.RecordPeak(ctx, day, online)
		})
	}
}

// Stats returns the current presence aggregates. Each one degrades to zero
// independently when its query fails.
func (s *PresenceService) Stats(ctx context.Context) models.PresenceStats {
	now := s.now()
	day := dateOf(now)

	var stats models.PresenceStats
	s.try("count online", func() error {
		var err error
		stats.CurrentOnline, err = s.store.CountActiveSince(ctx, now.Add(-s.window))
		return err
	})
	s.try("count today", func() error {
		var err error
		stats.TodayUnique, err = s.store.CountForDay(ctx, day)
		return err
	})
	s.try("read peak", func() error {
		var err error
		stats.TodayPeak, err = s.store.PeakForDay(ctx, day)
		return err
	})
	return stats
}

func (s *PresenceService) try(op string, fn func() error) bool {
	if err := fn(); err != nil {
		log.Printf("presence: %s failed: %v", op, err)
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
