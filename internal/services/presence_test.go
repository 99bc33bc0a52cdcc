package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakePresenceStore keeps one row per (identifier, day) like the real table.
type fakePresenceStore struct {
	rows  map[string]time.Time // "identifier|day" -> last_seen
	peaks map[time.Time]int

	failUpsert bool
	failCounts bool
	failPeaks  bool
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{
		rows:  map[string]time.Time{},
		peaks: map[time.Time]int{},
	}
}

func rowKey(identifier string, day time.Time) string {
	return identifier + "|" + day.Format("2006-01-02")
}

func (f *fakePresenceStore) Upsert(ctx context.Context, identifier string, day, lastSeen time.Time) error {
	if f.failUpsert {
		return errors.New("postgres down")
	}
	f.rows[rowKey(identifier, day)] = lastSeen
	return nil
}

func (f *fakePresenceStore) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	if f.failCounts {
		return 0, errors.New("postgres down")
	}
	count := 0
	for _, lastSeen := range f.rows {
		if !lastSeen.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakePresenceStore) CountForDay(ctx context.Context, day time.Time) (int, error) {
	if f.failCounts {
		return 0, errors.New("postgres down")
	}
	count := 0
	suffix := "|" + day.Format("2006-01-02")
	for key := range f.rows {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

func (f *fakePresenceStore) PeakForDay(ctx context.Context, day time.Time) (int, error) {
	if f.failPeaks {
		return 0, errors.New("postgres down")
	}
	return f.peaks[day], nil
}

func (f *fakePresenceStore) RecordPeak(ctx context.Context, day time.Time, peak int) error {
	if f.failPeaks {
		return errors.New("postgres down")
	}
	if peak > f.peaks[day] {
		f.peaks[day] = peak
	}
	return nil
}

func newTestPresence(store PresenceStore, at time.Time) *PresenceService {
	svc := NewPresenceService(store, 5*time.Minute)
	svc.now = func() time.Time { return at }
	return svc
}

func TestPresenceTrack_OneRowPerIdentifierPerDay(t *testing.T) {
	store := newFakePresenceStore()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	svc := newTestPresence(store, base)
	ctx := context.Background()

	svc.Track(ctx, "user:alice")
	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	svc.Track(ctx, "user:alice")

	if len(store.rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(store.rows))
	}
	lastSeen := store.rows[rowKey("user:alice", dateOf(base))]
	if !lastSeen.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("expected last_seen refreshed, got %v", lastSeen)
	}
}

func TestPresenceStats_CountsWithinWindow(t *testing.T) {
	store := newFakePresenceStore()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	svc := newTestPresence(store, base)
	ctx := context.Background()

	svc.Track(ctx, "user:alice")
	svc.Track(ctx, "session:abc")

	// A visitor last seen before the window has opened is not online but
	// still counts toward today's uniques.
	day := dateOf(base)
	store.rows[rowKey("session:stale", day)] = base.Add(-10 * time.Minute)

	stats := svc.Stats(ctx)
	if stats.CurrentOnline != 2 {
		t.Fatalf("expected 2 online, got %d", stats.CurrentOnline)
	}
	if stats.TodayUnique != 3 {
		t.Fatalf("expected 3 unique today, got %d", stats.TodayUnique)
	}
}

func TestPresenceTrack_PeakMonotonicWithinDay(t *testing.T) {
	store := newFakePresenceStore()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	svc := newTestPresence(store, base)
	ctx := context.Background()

	svc.Track(ctx, "user:alice")
	svc.Track(ctx, "user:bob")
	svc.Track(ctx, "session:xyz")

	day := dateOf(base)
	if store.peaks[day] != 3 {
		t.Fatalf("expected peak 3, got %d", store.peaks[day])
	}

	// Everyone but one visitor ages out; the peak must not regress.
	svc.now = func() time.Time { return base.Add(20 * time.Minute) }
	svc.Track(ctx, "user:alice")

	if store.peaks[day] != 3 {
		t.Fatalf("peak regressed to %d", store.peaks[day])
	}
	if got := svc.Stats(ctx); got.TodayPeak != 3 || got.CurrentOnline != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestPresenceTrack_EmptyIdentifierIgnored(t *testing.T) {
	store := newFakePresenceStore()
	svc := newTestPresence(store, time.Now())

	svc.Track(context.Background(), "")
	if len(store.rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(store.rows))
	}
}

func TestPresenceTrack_StorageFailureSwallowed(t *testing.T) {
	store := newFakePresenceStore()
	store.failUpsert = true
	store.failCounts = true
	store.failPeaks = true
	svc := newTestPresence(store, time.Now())

	// Must not panic or surface an error in any form.
	svc.Track(context.Background(), "user:alice")

	stats := svc.Stats(context.Background())
	if stats.CurrentOnline != 0 || stats.TodayUnique != 0 || stats.TodayPeak != 0 {
		t.Fatalf("expected zeroed stats on failure, got %+v", stats)
	}
}

func TestPresenceStats_AggregatesDegradeIndependently(t *testing.T) {
	store := newFakePresenceStore()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	svc := newTestPresence(store, base)
	ctx := context.Background()

	svc.Track(ctx, "user:alice")
	store.failPeaks = true

	stats := svc.Stats(ctx)
	if stats.CurrentOnline != 1 || stats.TodayUnique != 1 {
		t.Fatalf("working aggregates must survive, got %+v", stats)
	}
	if stats.TodayPeak != 0 {
		t.Fatalf("failed aggregate must default to zero, got %d", stats.TodayPeak)
	}
}
