package waze

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"golang.org/x/time/rate"
)

// WazeEstimator implements LegEstimator against the unofficial Waze
// endpoints.
//
// It coordinates:
//   - Coordinate-string detection and address geocoding
//   - An in-process geocode memo (each address resolves once per process)
//   - Routing requests with retry/backoff and client-side rate limiting
//
// The estimator is safe for concurrent use.
type WazeEstimator struct {
	session *http.Client
	limiter *rate.Limiter
	baseURL string
	region  string

	vehicleType            string
	avoidTollRoads         bool
	avoidFerries           bool
	avoidSubscriptionRoads bool
	realTime               bool

	mu     sync.Mutex
	coords map[string]domain.Coordinates
}

// Per-region search and routing servers, and the bias coordinates their
// geocoder expects.
var (
	baseCoords = map[string]domain.Coordinates{
		"US": {Lat: 40.713, Lon: -74.006},
		"EU": {Lat: 47.498, Lon: 19.040},
		"IL": {Lat: 31.768, Lon: 35.214},
		"AU": {Lat: -35.281, Lon: 149.128},
	}
	coordServers = map[string]string{
		"US": "SearchServer/mozi",
		"EU": "row-SearchServer/mozi",
		"IL": "il-SearchServer/mozi",
		"AU": "row-SearchServer/mozi",
	}
	routingServers = map[string]string{
		"US": "RoutingManager/routingRequest",
		"EU": "row-RoutingManager/routingRequest",
		"IL": "il-RoutingManager/routingRequest",
		"AU": "row-RoutingManager/routingRequest",
	}
)

var vehicleTypes = map[string]struct{}{"TAXI": {}, "MOTORCYCLE": {}}

type Option func(*WazeEstimator)

// WithVehicleType restricts routing to a vehicle profile (TAXI, MOTORCYCLE).
// Unknown types are ignored.
func WithVehicleType(t string) Option {
	return func(w *WazeEstimator) {
		t = strings.ToUpper(strings.TrimSpace(t))
		if _, ok := vehicleTypes[t]; ok {
			w.vehicleType = t
		}
	}
}

func WithAvoidTollRoads() Option {
	return func(w *WazeEstimator) { w.avoidTollRoads = true }
}

func WithAvoidFerries() Option {
	return func(w *WazeEstimator) { w.avoidFerries = true }
}

// WithAvoidSubscriptionRoads handles the vignette system in Europe. Off by
// default so all routes are considered.
func WithAvoidSubscriptionRoads() Option {
	return func(w *WazeEstimator) { w.avoidSubscriptionRoads = true }
}

// WithBaseURL overrides the Waze endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(w *WazeEstimator) { w.baseURL = strings.TrimRight(u, "/") }
}

// NewWazeEstimator builds an estimator for one region ("US", "EU", "IL",
// "AU"; "NA" aliases to "US").
func NewWazeEstimator(region string, opts ...Option) (*WazeEstimator, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "NA" { // North America
		region = "US"
	}
	if _, ok := routingServers[region]; !ok {
		return nil, fmt.Errorf("unsupported region %q", region)
	}

	w := &WazeEstimator{
		session:  &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(2), 1),
		baseURL:  "https://www.waze.com",
		region:   region,
		realTime: true,
		coords:   make(map[string]domain.Coordinates),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// routeOptions renders the AVOID_* flags in the wire format the routing
// server expects.
func (w *WazeEstimator) routeOptions() string {
	flag := func(b bool) string {
		if b {
			return "t"
		}
		return "f"
	}

	return strings.Join([]string{
		"AVOID_TRAILS:t",
		"AVOID_TOLL_ROADS:" + flag(w.avoidTollRoads),
		"AVOID_FERRIES:" + flag(w.avoidFerries),
	}, ",")
}

// EstimateLeg returns the estimated travel time in minutes between two
// locations. Implements the LegEstimator port.
func (w *WazeEstimator) EstimateLeg(ctx context.Context, origin, destination string) (float64, error) {
	info, err := w.RouteInfo(ctx, origin, destination)
	if err != nil {
		return 0, err
	}
	return info.Minutes, nil
}

// RouteInfo resolves both endpoints and returns time and distance for the
// best route between them.
func (w *WazeEstimator) RouteInfo(ctx context.Context, origin, destination string) (ports.RouteInfo, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return ports.RouteInfo{}, errors.New("waze route info: origin and destination must be non-empty")
	}

	from, err := w.resolve(ctx, origin)
	if err != nil {
		return ports.RouteInfo{}, fmt.Errorf("resolve origin: %w", err)
	}

	to, err := w.resolve(ctx, destination)
	if err != nil {
		return ports.RouteInfo{}, fmt.Errorf("resolve destination: %w", err)
	}

	routes, err := w.getRoutes(ctx, from, to, 1)
	if err != nil {
		return ports.RouteInfo{}, err
	}
	if len(routes) == 0 {
		return ports.RouteInfo{}, &ports.EstimationError{Reason: "no route returned"}
	}

	return sumRoute(routes[0].segments(), w.realTime), nil
}

// RouteAlternatives returns up to npaths alternative routes keyed by route
// type and short name.
func (w *WazeEstimator) RouteAlternatives(ctx context.Context, origin, destination string, npaths int) (map[string]ports.RouteInfo, error) {
	if npaths < 1 {
		npaths = 3
	}

	from, err := w.resolve(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}

	to, err := w.resolve(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	routes, err := w.getRoutes(ctx, from, to, npaths)
	if err != nil {
		return nil, err
	}

	out := make(map[string]ports.RouteInfo, len(routes))
	for _, r := range routes {
		out[r.label()] = sumRoute(r.segments(), w.realTime)
	}

	return out, nil
}

var _ ports.RouteInfoProvider = (*WazeEstimator)(nil)
