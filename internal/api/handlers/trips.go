package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

type TripHandler struct {
	Planner *services.TripPlanner
	Zone    *time.Location
}

// Plan computes a multi-leg itinerary working back from the desired arrival
// time. Invalid input maps to 400, estimator failures to 502 (the upstream
// routing service is the dependency that failed), everything else to 500.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanTripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	arrival, err := domain.ParseTimestamp(req.DesiredArrivalTime, h.Zone)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "desired_arrival_time must be YYYY-MM-DD HH:MM:SS")
		return
	}

	itinerary, err := h.Planner.PlanTrip(r.Context(), services.PlanTripRequest{
		Locations:      req.Locations,
		Breaks:         req.Breaks,
		DesiredArrival: arrival,
	})
	if err != nil {
		var estErr *ports.EstimationError
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &estErr):
			log.Printf("plan trip estimation failed: %v", err)
			writeError(w, r, http.StatusBadGateway, "travel time estimation failed")
		default:
			log.Printf("plan trip failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := dto.ItineraryResponse{
		TotalTripTimeMinutes:     itinerary.TotalTripMinutes,
		RecommendedDepartureTime: itinerary.RecommendedDeparture.Format(domain.TimestampLayout),
		Legs:                     make([]dto.TripLegResponse, 0, len(itinerary.Legs)),
	}
	for _, leg := range itinerary.Legs {
		res.Legs = append(res.Legs, dto.TripLegResponse{
			From:              leg.From,
			To:                leg.To,
			DepartureTime:     leg.DepartAt.Format(domain.TimestampLayout),
			ArrivalTime:       leg.ArriveAt.Format(domain.TimestampLayout),
			TravelTimeMinutes: leg.TravelMinutes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
