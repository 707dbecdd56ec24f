package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Tolerance bounds for reusing a memoized estimate: the query and the
// recorded estimate may be up to 14 calendar days apart and their
// hours-of-day up to 1 apart.
const (
	cacheDateToleranceDays = 14
	cacheHourTolerance     = 1
)

// EstimateCache memoizes LegEstimator results keyed by leg and coarse time
// window, so repeated planning over overlapping legs avoids redundant
// remote queries.
//
// Entries are indexed per normalized "origin -> destination" key and kept in
// insertion order; the earliest-inserted entry inside the tolerance window
// wins, not the closest-in-time one. The cache is the only writer to its
// store: each miss appends a record stamped with the current wall clock in
// the configured zone and persists the full snapshot. Store write failures
// are logged and suppressed (the update is only lost on restart).
//
// Safe for concurrent use.
type EstimateCache struct {
	estimator ports.LegEstimator
	store     ports.EstimateStore
	clock     func() time.Time
	zone      *time.Location

	mu     sync.Mutex
	index  map[string][]domain.EstimateRecord
	order  []string
	hits   int
	misses int
}

// NewEstimateCache builds a cache over the given estimator. The store may be
// nil for purely in-memory operation. A nil clock defaults to time.Now and a
// nil zone to UTC.
func NewEstimateCache(estimator ports.LegEstimator, store ports.EstimateStore, clock func() time.Time, zone *time.Location) *EstimateCache {
	if clock == nil {
		clock = time.Now
	}
	if zone == nil {
		zone = time.UTC
	}
	return &EstimateCache{
		estimator: estimator,
		store:     store,
		clock:     clock,
		zone:      zone,
		index:     make(map[string][]domain.EstimateRecord),
	}
}

// Hydrate the in-memory index from the persistence store.
func (c *EstimateCache) Load(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	records, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("estimate cache: load store: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = make(map[string][]domain.EstimateRecord, len(records))
	c.order = c.order[:0]
	for _, r := range records {
		c.append(r)
	}

	return nil
}

// LookupOrEstimate returns the travel time in minutes for a leg, reusing a
// memoized estimate when one falls inside the tolerance window of desiredAt,
// and querying the estimator otherwise. Estimator failures propagate to the
// caller untouched; no retry, no fallback value.
func (c *EstimateCache) LookupOrEstimate(ctx context.Context, origin, destination string, desiredAt time.Time) (float64, error) {
	key := domain.LegKey(origin, destination)
	desired := desiredAt.In(c.zone)

	c.mu.Lock()
	for _, rec := range c.index[key] {
		if withinTolerance(desired, rec.RecordedAt.In(c.zone)) {
			c.hits++
			minutes := rec.Minutes
			c.mu.Unlock()
			log.Printf("estimate cache hit leg=%q minutes=%.1f", key, minutes)
			return minutes, nil
		}
	}
	c.misses++
	c.mu.Unlock()

	log.Printf("estimate cache miss leg=%q", key)
	minutes, err := c.estimator.EstimateLeg(ctx, origin, destination)
	if err != nil {
		return 0, fmt.Errorf("estimate leg %q: %w", key, err)
	}

	rec := domain.EstimateRecord{
		Origin:      domain.NormalizeLocation(origin),
		Destination: domain.NormalizeLocation(destination),
		Minutes:     minutes,
		RecordedAt:  c.clock().In(c.zone),
	}

	c.mu.Lock()
	c.append(rec)
	snapshot := c.snapshot()
	c.mu.Unlock()

	if c.store != nil {
		// An unsaved cache update is not fatal to the current plan call.
		if err := c.store.Save(ctx, snapshot); err != nil {
			log.Printf("estimate cache save failed: %v", err)
		}
	}

	return minutes, nil
}

// Stats returns cumulative hit and miss counts.
func (c *EstimateCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// append records an entry under its leg key, tracking first-seen key order
// so snapshots replay in global insertion order. Callers hold c.mu.
func (c *EstimateCache) append(rec domain.EstimateRecord) {
	key := rec.Origin + " -> " + rec.Destination
	if _, ok := c.index[key]; !ok {
		c.order = append(c.order, key)
	}
	c.index[key] = append(c.index[key], rec)
}

func (c *EstimateCache) snapshot() []domain.EstimateRecord {
	out := make([]domain.EstimateRecord, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.index[key]...)
	}
	return out
}

// withinTolerance applies the date and hour-of-day proximity checks.
//
// The hour comparison is a plain absolute difference with no midnight
// wraparound: 23:00 and 00:00 count as 23 hours apart. Inherited behavior,
// kept as-is.
func withinTolerance(desired, recorded time.Time) bool {
	dd := dateOf(desired).Sub(dateOf(recorded)) / (24 * time.Hour)
	if dd < 0 {
		dd = -dd
	}
	if dd > cacheDateToleranceDays {
		return false
	}

	dh := desired.Hour() - recorded.Hour()
	if dh < 0 {
		dh = -dh
	}
	return dh <= cacheHourTolerance
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
