package cachestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
)

// FileStore persists the estimate cache as a JSON dict file:
//
//	{"<origin> -> <destination> @ <YYYY-MM-DD HH:MM:SS>":
//	    {"travel_time_minutes": 42.5, "timestamp": "<YYYY-MM-DD HH:MM:SS>"}}
//
// The composite key embeds the wall-clock time the entry was created. A
// missing or unreadable file loads as an empty cache. Document order is the
// cache's insertion order, so entries are decoded and written in sequence
// rather than through a map.
type FileStore struct {
	Path string
	Zone *time.Location
}

func NewFileStore(path string, zone *time.Location) *FileStore {
	if zone == nil {
		zone = time.UTC
	}
	return &FileStore{Path: path, Zone: zone}
}

type fileEntry struct {
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	Timestamp         string  `json:"timestamp"`
}

// Load all persisted estimate records in document order.
func (f *FileStore) Load(ctx context.Context) ([]domain.EstimateRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("file store: read %q: %w", f.Path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		// Undecodable file starts the cache empty rather than failing.
		return nil, nil
	}

	var records []domain.EstimateRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil
		}
		key, _ := keyTok.(string)

		var entry fileEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, nil
		}

		rec, err := f.parseRecord(key, entry)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Save the complete snapshot, replacing the file contents. Entries are
// written in slice order to keep the dict layout insertion-ordered.
func (f *FileStore) Save(ctx context.Context, records []domain.EstimateRecord) error {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}

		ts := rec.RecordedAt.In(f.Zone).Format(domain.TimestampLayout)
		key, err := json.Marshal(rec.Origin + " -> " + rec.Destination + " @ " + ts)
		if err != nil {
			return fmt.Errorf("file store: marshal key: %w", err)
		}
		val, err := json.Marshal(fileEntry{TravelTimeMinutes: rec.Minutes, Timestamp: ts})
		if err != nil {
			return fmt.Errorf("file store: marshal entry: %w", err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	if err := os.WriteFile(f.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("file store: write %q: %w", f.Path, err)
	}

	return nil
}

// parseRecord splits the "origin -> destination @ timestamp" composite key.
func (f *FileStore) parseRecord(key string, entry fileEntry) (domain.EstimateRecord, error) {
	at := strings.LastIndex(key, " @ ")
	if at < 0 {
		return domain.EstimateRecord{}, fmt.Errorf("file store: malformed key %q", key)
	}

	leg := key[:at]
	arrow := strings.Index(leg, " -> ")
	if arrow < 0 {
		return domain.EstimateRecord{}, fmt.Errorf("file store: malformed key %q", key)
	}

	recordedAt, err := domain.ParseTimestamp(strings.TrimSpace(key[at+3:]), f.Zone)
	if err != nil {
		return domain.EstimateRecord{}, fmt.Errorf("file store: malformed timestamp in key %q: %w", key, err)
	}

	return domain.EstimateRecord{
		Origin:      leg[:arrow],
		Destination: leg[arrow+4:],
		Minutes:     entry.TravelTimeMinutes,
		RecordedAt:  recordedAt,
	}, nil
}
