package cachestore

import (
	"context"
	"testing"
	"time"

	"trip-planner-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "", time.UTC)

	want := []domain.EstimateRecord{
		record(t, "tel aviv", "haifa", 55.5, "2024-06-01 08:00:00"),
		record(t, "haifa", "acre", 25, "2024-06-01 08:05:00"),
		record(t, "tel aviv", "haifa", 60, "2024-06-02 17:00:00"),
	}

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Origin != want[i].Origin || got[i].Destination != want[i].Destination {
			t.Fatalf("record %d leg = %q -> %q, want %q -> %q",
				i, got[i].Origin, got[i].Destination, want[i].Origin, want[i].Destination)
		}
		if got[i].Minutes != want[i].Minutes {
			t.Fatalf("record %d minutes = %v, want %v", i, got[i].Minutes, want[i].Minutes)
		}
		if !got[i].RecordedAt.Equal(want[i].RecordedAt) {
			t.Fatalf("record %d recordedAt = %v, want %v", i, got[i].RecordedAt, want[i].RecordedAt)
		}
	}
}

func TestRedisStoreEmptyKeyLoadsEmpty(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "", time.UTC)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %d records from empty key, want 0", len(got))
	}
}

func TestRedisStoreSaveReplacesSnapshot(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "", time.UTC)
	ctx := context.Background()

	first := []domain.EstimateRecord{
		record(t, "a", "b", 10, "2024-06-01 08:00:00"),
		record(t, "b", "c", 20, "2024-06-01 08:05:00"),
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := []domain.EstimateRecord{
		record(t, "a", "b", 10, "2024-06-01 08:00:00"),
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d records, want snapshot of 1", len(got))
	}
}
