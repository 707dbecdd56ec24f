package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-planner-service/internal/adapters/waze"
	"trip-planner-service/internal/domain"
)

// memoryStore is an in-memory EstimateStore for deterministic tests.
type memoryStore struct {
	records []domain.EstimateRecord
	saves   int
	saveErr error
}

func (m *memoryStore) Load(ctx context.Context) ([]domain.EstimateRecord, error) {
	return m.records, nil
}

func (m *memoryStore) Save(ctx context.Context, records []domain.EstimateRecord) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]domain.EstimateRecord(nil), records...)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := domain.ParseTimestamp(s, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

func TestEstimateCacheToleranceWindow(t *testing.T) {
	recorded := ts(t, "2024-06-01 08:00:00")

	cases := []struct {
		name    string
		desired string
		wantHit bool
	}{
		{name: "9 days and half an hour apart", desired: "2024-06-10 08:30:00", wantHit: true},
		{name: "19 days apart", desired: "2024-06-20 08:00:00", wantHit: false},
		{name: "2.5 hours apart", desired: "2024-06-01 10:30:00", wantHit: false},
		{name: "exactly 14 days", desired: "2024-06-15 08:00:00", wantHit: true},
		{name: "exactly 1 hour", desired: "2024-06-01 09:00:00", wantHit: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			estimator := waze.NewMockLegEstimator([]waze.MockLeg{
				{From: "Tel Aviv", To: "Haifa", Minutes: 55},
			})
			store := &memoryStore{records: []domain.EstimateRecord{
				{Origin: "tel aviv", Destination: "haifa", Minutes: 42, RecordedAt: recorded},
			}}

			cache := NewEstimateCache(estimator, store, fixedClock(recorded), time.UTC)
			if err := cache.Load(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			minutes, err := cache.LookupOrEstimate(context.Background(), "Tel Aviv", "Haifa", ts(t, tc.desired))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.wantHit {
				if minutes != 42 {
					t.Fatalf("minutes = %v, want cached 42", minutes)
				}
				if estimator.Calls != 0 {
					t.Fatalf("estimator calls = %d, want 0", estimator.Calls)
				}
			} else {
				if minutes != 55 {
					t.Fatalf("minutes = %v, want fresh 55", minutes)
				}
				if estimator.Calls != 1 {
					t.Fatalf("estimator calls = %d, want 1", estimator.Calls)
				}
			}
		})
	}
}

func TestEstimateCacheKeyingIsCaseInsensitive(t *testing.T) {
	recorded := ts(t, "2024-06-01 08:00:00")
	estimator := waze.NewMockLegEstimator(nil)
	store := &memoryStore{records: []domain.EstimateRecord{
		{Origin: "tel aviv", Destination: "haifa", Minutes: 42, RecordedAt: recorded},
	}}

	cache := NewEstimateCache(estimator, store, fixedClock(recorded), time.UTC)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minutes, err := cache.LookupOrEstimate(context.Background(), "TEL AVIV", "Haifa", recorded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 42 {
		t.Fatalf("minutes = %v, want 42", minutes)
	}
	if estimator.Calls != 0 {
		t.Fatalf("estimator calls = %d, want 0", estimator.Calls)
	}
}

func TestEstimateCacheFirstInsertedMatchWins(t *testing.T) {
	// Both entries fall inside the tolerance window; the second is closer in
	// time but the earliest-inserted one must win.
	estimator := waze.NewMockLegEstimator(nil)
	store := &memoryStore{records: []domain.EstimateRecord{
		{Origin: "a", Destination: "b", Minutes: 10, RecordedAt: ts(t, "2024-06-01 08:00:00")},
		{Origin: "a", Destination: "b", Minutes: 20, RecordedAt: ts(t, "2024-06-05 08:00:00")},
	}}

	cache := NewEstimateCache(estimator, store, fixedClock(ts(t, "2024-06-05 08:00:00")), time.UTC)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minutes, err := cache.LookupOrEstimate(context.Background(), "A", "B", ts(t, "2024-06-05 08:30:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 10 {
		t.Fatalf("minutes = %v, want earliest-inserted 10", minutes)
	}
}

func TestEstimateCacheHourComparisonDoesNotWrapMidnight(t *testing.T) {
	// 23:00 and 00:00 are 23 hours apart under plain subtraction, so the
	// entry must not be reused even though the wall clocks are adjacent.
	estimator := waze.NewMockLegEstimator([]waze.MockLeg{
		{From: "a", To: "b", Minutes: 33},
	})
	store := &memoryStore{records: []domain.EstimateRecord{
		{Origin: "a", Destination: "b", Minutes: 10, RecordedAt: ts(t, "2024-06-01 23:00:00")},
	}}

	cache := NewEstimateCache(estimator, store, fixedClock(ts(t, "2024-06-01 23:00:00")), time.UTC)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minutes, err := cache.LookupOrEstimate(context.Background(), "a", "b", ts(t, "2024-06-02 00:00:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 33 {
		t.Fatalf("minutes = %v, want fresh 33", minutes)
	}
	if estimator.Calls != 1 {
		t.Fatalf("estimator calls = %d, want 1", estimator.Calls)
	}
}

func TestEstimateCachePersistsOnMiss(t *testing.T) {
	now := ts(t, "2024-06-01 12:00:00")
	estimator := waze.NewMockLegEstimator([]waze.MockLeg{
		{From: "a", To: "b", Minutes: 25},
	})
	store := &memoryStore{}

	cache := NewEstimateCache(estimator, store, fixedClock(now), time.UTC)

	if _, err := cache.LookupOrEstimate(context.Background(), "a", "b", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.saves != 1 {
		t.Fatalf("store saves = %d, want 1", store.saves)
	}
	if len(store.records) != 1 {
		t.Fatalf("stored records = %d, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.Origin != "a" || rec.Destination != "b" || rec.Minutes != 25 {
		t.Fatalf("unexpected stored record: %+v", rec)
	}
	if !rec.RecordedAt.Equal(now) {
		t.Fatalf("RecordedAt = %v, want %v", rec.RecordedAt, now)
	}

	// A hit must not trigger another persistence write.
	if _, err := cache.LookupOrEstimate(context.Background(), "a", "b", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("store saves after hit = %d, want 1", store.saves)
	}
}

func TestEstimateCacheSuppressesStoreErrors(t *testing.T) {
	now := ts(t, "2024-06-01 12:00:00")
	estimator := waze.NewMockLegEstimator([]waze.MockLeg{
		{From: "a", To: "b", Minutes: 25},
	})
	store := &memoryStore{saveErr: errors.New("disk full")}

	cache := NewEstimateCache(estimator, store, fixedClock(now), time.UTC)

	minutes, err := cache.LookupOrEstimate(context.Background(), "a", "b", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 25 {
		t.Fatalf("minutes = %v, want 25", minutes)
	}

	// The in-memory entry survives the failed write.
	minutes, err = cache.LookupOrEstimate(context.Background(), "a", "b", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 25 {
		t.Fatalf("minutes = %v, want 25", minutes)
	}
	if estimator.Calls != 1 {
		t.Fatalf("estimator calls = %d, want 1", estimator.Calls)
	}
}

func TestEstimateCachePropagatesEstimatorErrors(t *testing.T) {
	now := ts(t, "2024-06-01 12:00:00")
	estimator := waze.NewMockLegEstimator(nil) // every leg is missing
	cache := NewEstimateCache(estimator, &memoryStore{}, fixedClock(now), time.UTC)

	if _, err := cache.LookupOrEstimate(context.Background(), "a", "b", now); err == nil {
		t.Fatal("expected error, got nil")
	}
}
