package domain

import "time"

// TimestampLayout is the wall-clock format used for cache entries and the
// planner's external timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// A single memoized travel-time estimate for one leg, stamped with the
// wall-clock time the estimate was produced (not the query time).
type EstimateRecord struct {
	Origin      string
	Destination string
	Minutes     float64
	RecordedAt  time.Time
}

// LegKey returns the normalized "origin -> destination" cache key prefix.
func LegKey(origin, destination string) string {
	return NormalizeLocation(origin) + " -> " + NormalizeLocation(destination)
}

// ParseTimestamp parses a "YYYY-MM-DD HH:MM:SS" string in the given zone.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, loc)
}
