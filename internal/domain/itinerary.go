package domain

import "time"

// One origin-to-destination segment of a planned trip, with its computed
// departure and arrival timestamps and adjusted travel time.
type TripLeg struct {
	From          string
	To            string
	DepartAt      time.Time
	ArriveAt      time.Time
	TravelMinutes float64
}

// Represents the full plan for a multi-stop trip working back from a fixed
// arrival deadline. An Itinerary is the output of the trip planner and is
// immutable planning data; legs appear in waypoint order.
type Itinerary struct {
	Legs                 []TripLeg
	TotalTripMinutes     float64
	RecommendedDeparture time.Time
	DesiredArrival       time.Time
}
