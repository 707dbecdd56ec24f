package services

import (
	"context"
	"fmt"
	"time"

	"trip-planner-service/internal/domain"
)

// TripPlanner chains per-leg travel estimates into a multi-leg itinerary
// with a recommended departure time for a fixed arrival deadline.
type TripPlanner struct {
	Cache *EstimateCache
}

func NewTripPlanner(cache *EstimateCache) *TripPlanner {
	return &TripPlanner{Cache: cache}
}

type PlanTripRequest struct {
	// Ordered waypoints; order is fixed and authoritative.
	Locations []string
	// Minutes spent at each intermediate stop, one per leg. Shorter lists
	// are right-padded with zero; nil means no breaks.
	Breaks []float64
	// The fixed constraint the plan works back from.
	DesiredArrival time.Time
}

// PlanTrip computes the itinerary with a single backward pass over the legs.
//
// Arrival time is the binding constraint, so each leg's required departure
// can only be derived once the cumulative downstream travel time is known; a
// forward pass would have to assume a departure time first. Each leg's
// rush-hour penalty is decided against its tentative (pre-penalty) departure
// and never re-checked afterward; that one-shot behavior is kept for
// compatibility with the historical results.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (*domain.Itinerary, error) {
	if len(req.Locations) < 2 {
		return nil, fmt.Errorf("plan trip: must provide at least two locations: %w", domain.ErrInvalidInput)
	}

	legCount := len(req.Locations) - 1
	if len(req.Breaks) > legCount {
		return nil, fmt.Errorf("plan trip: %d breaks for %d legs: %w", len(req.Breaks), legCount, domain.ErrInvalidInput)
	}

	breaks := make([]float64, legCount)
	copy(breaks, req.Breaks)

	arrival := req.DesiredArrival
	legs := make([]domain.TripLeg, legCount)
	total := 0.0

	for i := legCount - 1; i >= 0; i-- {
		from, to := req.Locations[i], req.Locations[i+1]

		base, err := p.Cache.LookupOrEstimate(ctx, from, to, arrival)
		if err != nil {
			return nil, fmt.Errorf("plan trip: leg %q -> %q: %w", from, to, err)
		}

		tentative := arrival.Add(-minutes(total + base))
		adjusted := AdjustForRushHour(tentative, base)

		// The leg arrives where the downstream accumulation left off; its
		// break is spent at the origin stop before departing.
		legArrival := arrival.Add(-minutes(total))
		legs[i] = domain.TripLeg{
			From:          from,
			To:            to,
			DepartAt:      legArrival.Add(-minutes(adjusted)),
			ArriveAt:      legArrival,
			TravelMinutes: adjusted,
		}

		total += adjusted + breaks[i]
	}

	return &domain.Itinerary{
		Legs:                 legs,
		TotalTripMinutes:     total,
		RecommendedDeparture: arrival.Add(-minutes(total)),
		DesiredArrival:       arrival,
	}, nil
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
