package waze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type geocodeResult struct {
	City     string `json:"city"`
	Location struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"location"`
}

// resolve turns a location into coordinates: explicit "lat, lon" strings
// parse directly, anything else goes through the search endpoint. Resolved
// addresses are memoized for the life of the estimator.
func (w *WazeEstimator) resolve(ctx context.Context, location string) (domain.Coordinates, error) {
	if domain.IsCoordinateString(location) {
		return parseCoordinateString(location)
	}

	key := domain.NormalizeLocation(location)

	w.mu.Lock()
	c, ok := w.coords[key]
	w.mu.Unlock()
	if ok {
		return c, nil
	}

	c, err := w.addressToCoords(ctx, location)
	if err != nil {
		return domain.Coordinates{}, err
	}

	w.mu.Lock()
	w.coords[key] = c
	w.mu.Unlock()

	return c, nil
}

// parseCoordinateString splits a "lat, lon" pair into coordinates.
func parseCoordinateString(s string) (domain.Coordinates, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate string %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

// addressToCoords geocodes an address via the regional search server,
// biased around the region's base coordinates. The first result carrying a
// city wins; no result means the address is unresolvable.
func (w *WazeEstimator) addressToCoords(ctx context.Context, address string) (domain.Coordinates, error) {
	base := baseCoords[w.region]
	endpoint := w.baseURL + "/" + coordServers[w.region]

	q := url.Values{}
	q.Set("q", address)
	q.Set("lang", "eng")
	q.Set("origin", "livemap")
	q.Set("lat", strconv.FormatFloat(base.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(base.Lon, 'f', -1, 64))

	resp, err := w.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := w.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, &ports.EstimationError{Reason: "decode geocode response", Err: err}
	}

	for _, r := range results {
		if r.City != "" {
			return domain.Coordinates{Lat: r.Location.Lat, Lon: r.Location.Lon}, nil
		}
	}

	return domain.Coordinates{}, &ports.EstimationError{Reason: fmt.Sprintf("cannot get coords for %q", address)}
}
