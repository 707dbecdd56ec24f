package ports

import "context"

// Best-route time and distance for one leg.
type RouteInfo struct {
	Minutes    float64
	Kilometers float64
}

// Optional extension of LegEstimator exposing full route figures and
// alternative routes.
type RouteInfoProvider interface {
	LegEstimator
	// Return time and distance for the best route between two locations.
	RouteInfo(ctx context.Context, origin string, destination string) (RouteInfo, error)
	// Return up to npaths alternative routes keyed by route label.
	RouteAlternatives(ctx context.Context, origin string, destination string, npaths int) (map[string]RouteInfo, error)
}
