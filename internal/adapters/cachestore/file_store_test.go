package cachestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trip-planner-service/internal/domain"
)

func record(t *testing.T, origin, destination string, minutes float64, recorded string) domain.EstimateRecord {
	t.Helper()
	ts, err := domain.ParseTimestamp(recorded, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", recorded, err)
	}
	return domain.EstimateRecord{
		Origin:      origin,
		Destination: destination,
		Minutes:     minutes,
		RecordedAt:  ts,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waze_dict.json")
	store := NewFileStore(path, time.UTC)

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

func TestFileStoreWritesDictLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waze_dict.json")
	store := NewFileStore(path, time.UTC)

	records := []domain.EstimateRecord{
		record(t, "tel aviv", "haifa", 55.5, "2024-06-01 08:00:00"),
	}
	if err := store.Save(context.Background(), records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]struct {
		TravelTimeMinutes float64 `json:"travel_time_minutes"`
		Timestamp         string  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("file is not a JSON dict: %v", err)
	}

	entry, ok := decoded["tel aviv -> haifa @ 2024-06-01 08:00:00"]
	if !ok {
		t.Fatalf("composite key missing, got keys %v", strings.TrimSpace(string(data)))
	}
	if entry.TravelTimeMinutes != 55.5 {
		t.Fatalf("travel_time_minutes = %v, want 55.5", entry.TravelTimeMinutes)
	}
	if entry.Timestamp != "2024-06-01 08:00:00" {
		t.Fatalf("timestamp = %q, want entry creation time", entry.Timestamp)
	}
}

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), time.UTC)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %d records from missing file, want 0", len(got))
	}
}

func TestFileStoreCorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waze_dict.json")
	if err := os.WriteFile(path, []byte("not json{"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewFileStore(path, time.UTC)
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("loaded %d records from corrupt file, want 0", len(got))
	}
}
