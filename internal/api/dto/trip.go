package dto

type PlanTripRequest struct {
	Locations          []string  `json:"locations"`
	Breaks             []float64 `json:"breaks"`
	DesiredArrivalTime string    `json:"desired_arrival_time"`
}

type TripLegResponse struct {
	From              string  `json:"from"`
	To                string  `json:"to"`
	DepartureTime     string  `json:"departure_time"`
	ArrivalTime       string  `json:"arrival_time"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
}

type ItineraryResponse struct {
	TotalTripTimeMinutes     float64           `json:"total_trip_time_minutes"`
	RecommendedDepartureTime string            `json:"recommended_departure_time"`
	Legs                     []TripLegResponse `json:"legs"`
}
