package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/ports"
)

type RouteHandler struct {
	Provider ports.RouteInfoProvider
}

// Info returns time and distance for a single leg. With ?alternatives=N it
// lists up to N alternative routes instead of just the best one.
func (h *RouteHandler) Info(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	if alt := r.URL.Query().Get("alternatives"); alt != "" {
		npaths, err := strconv.Atoi(alt)
		if err != nil || npaths < 1 || npaths > 5 {
			writeError(w, r, http.StatusBadRequest, "alternatives must be between 1 and 5")
			return
		}
		h.alternatives(w, r, from, to, npaths)
		return
	}

	info, err := h.Provider.RouteInfo(r.Context(), from, to)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteInfoResponse{
		From:              from,
		To:                to,
		TravelTimeMinutes: info.Minutes,
		DistanceKm:        info.Kilometers,
	})
}

func (h *RouteHandler) alternatives(w http.ResponseWriter, r *http.Request, from, to string, npaths int) {
	routes, err := h.Provider.RouteAlternatives(r.Context(), from, to, npaths)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	res := dto.RouteAlternativesResponse{
		From:         from,
		To:           to,
		Alternatives: make([]dto.RouteAlternativeResponse, 0, len(routes)),
	}
	for label, info := range routes {
		res.Alternatives = append(res.Alternatives, dto.RouteAlternativeResponse{
			Route:             label,
			TravelTimeMinutes: info.Minutes,
			DistanceKm:        info.Kilometers,
		})
	}
	// Map iteration order is random; keep the payload stable.
	sort.Slice(res.Alternatives, func(i, j int) bool {
		return res.Alternatives[i].Route < res.Alternatives[j].Route
	})

	writeJSON(w, r, http.StatusOK, res)
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	var estErr *ports.EstimationError
	if errors.As(err, &estErr) {
		log.Printf("route info estimation failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "travel time estimation failed")
		return
	}
	log.Printf("route info failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
