package dto

type RouteInfoResponse struct {
	From              string  `json:"from"`
	To                string  `json:"to"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	DistanceKm        float64 `json:"distance_km"`
}

type RouteAlternativeResponse struct {
	Route             string  `json:"route"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	DistanceKm        float64 `json:"distance_km"`
}

type RouteAlternativesResponse struct {
	From         string                     `json:"from"`
	To           string                     `json:"to"`
	Alternatives []RouteAlternativeResponse `json:"alternatives"`
}
