package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trip-planner-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "trip-planner:estimate-cache"

// RedisStore keeps the whole snapshot as one JSON array under a single key.
// A JSON array round-trips in order, which the cache's first-inserted-wins
// lookup depends on.
type RedisStore struct {
	Client *redis.Client
	Key    string
	Zone   *time.Location
}

func NewRedisStore(client *redis.Client, key string, zone *time.Location) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	if zone == nil {
		zone = time.UTC
	}
	return &RedisStore{Client: client, Key: key, Zone: zone}
}

type redisRecord struct {
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	Timestamp         string  `json:"timestamp"`
}

// Load all persisted estimate records in insertion order.
func (s *RedisStore) Load(ctx context.Context) ([]domain.EstimateRecord, error) {
	if s.Client == nil {
		return nil, errors.New("estimate store: redis client is nil")
	}

	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load estimate cache: redis get %q: %w", s.Key, err)
	}

	var raw []redisRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load estimate cache: decode snapshot: %w", err)
	}

	records := make([]domain.EstimateRecord, 0, len(raw))
	for _, r := range raw {
		ts, err := domain.ParseTimestamp(r.Timestamp, s.Zone)
		if err != nil {
			return nil, fmt.Errorf("load estimate cache: parse timestamp %q: %w", r.Timestamp, err)
		}
		records = append(records, domain.EstimateRecord{
			Origin:      r.Origin,
			Destination: r.Destination,
			Minutes:     r.TravelTimeMinutes,
			RecordedAt:  ts,
		})
	}

	return records, nil
}

// Save the complete snapshot under the store key with no expiry; stale
// entries are excluded by the cache's tolerance check at read time.
func (s *RedisStore) Save(ctx context.Context, records []domain.EstimateRecord) error {
	if s.Client == nil {
		return errors.New("estimate store: redis client is nil")
	}

	raw := make([]redisRecord, 0, len(records))
	for _, rec := range records {
		raw = append(raw, redisRecord{
			Origin:            rec.Origin,
			Destination:       rec.Destination,
			TravelTimeMinutes: rec.Minutes,
			Timestamp:         rec.RecordedAt.In(s.Zone).Format(domain.TimestampLayout),
		})
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("save estimate cache: encode snapshot: %w", err)
	}

	if err := s.Client.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("save estimate cache: redis set %q: %w", s.Key, err)
	}

	return nil
}
