package api

import (
	"net/http"
	"time"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(planner *services.TripPlanner, provider ports.RouteInfoProvider, zone *time.Location) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Planner: planner, Zone: zone}
	routeHandler := &handlers.RouteHandler{Provider: provider}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trips", tripHandler.Plan)
	mux.HandleFunc("/routes", routeHandler.Info)

	return loggingMiddleware(mux)
}
