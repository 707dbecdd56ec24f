package waze

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
)

type MockLeg struct {
	From, To string
	Minutes  float64
}

// MockLegEstimator serves canned estimates for tests and counts how many
// times it was consulted.
type MockLegEstimator struct {
	m     map[string]float64
	Calls int
}

func NewMockLegEstimator(legs []MockLeg) *MockLegEstimator {
	m := make(map[string]float64, len(legs))
	for _, l := range legs {
		m[domain.LegKey(l.From, l.To)] = l.Minutes
	}
	return &MockLegEstimator{m: m}
}

func (e *MockLegEstimator) EstimateLeg(ctx context.Context, origin, destination string) (float64, error) {
	e.Calls++
	minutes, ok := e.m[domain.LegKey(origin, destination)]
	if !ok {
		return 0, fmt.Errorf("missing leg %q -> %q", origin, destination)
	}
	return minutes, nil
}
