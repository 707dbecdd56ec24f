package ports

import (
	"context"
	"fmt"
)

// Contract for retrieving a fresh travel-time estimate for one leg.
type LegEstimator interface {
	// Return the estimated travel time in minutes between two locations.
	EstimateLeg(ctx context.Context, origin string, destination string) (float64, error)
}

// EstimationError is returned by LegEstimator implementations when the
// remote service is unreachable, answers with a non-success payload, or a
// location cannot be resolved. It propagates uncaught through the cache and
// planner; the current plan call is terminal on it.
type EstimationError struct {
	Reason string
	Err    error
}

func (e *EstimationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("estimation failed: %s: %v", e.Reason, e.Err)
	}
	return "estimation failed: " + e.Reason
}

func (e *EstimationError) Unwrap() error { return e.Err }
