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

type routeSegment struct {
	CrossTime                int `json:"crossTime"`
	CrossTimeWithoutRealTime int `json:"crossTimeWithoutRealTime"`
	Length                   int `json:"length"`
}

type routeResult struct {
	Results        []routeSegment `json:"results"`
	Result         []routeSegment `json:"result"`
	RouteType      []string       `json:"routeType"`
	ShortRouteName string         `json:"shortRouteName"`
}

// The routing payload carries either a single response object (sometimes
// wrapped in a list) or an alternatives list; errors come back in-band.
type routingResponse struct {
	Error        json.RawMessage `json:"error"`
	Response     json.RawMessage `json:"response"`
	Alternatives []struct {
		Response routeResult `json:"response"`
	} `json:"alternatives"`
}

// segments returns whichever of the two segment field spellings the server
// used.
func (r routeResult) segments() []routeSegment {
	if len(r.Results) > 0 {
		return r.Results
	}
	return r.Result
}

// label names an alternative route by type prefix and short name.
func (r routeResult) label() string {
	t := ""
	if len(r.RouteType) > 0 {
		t = r.RouteType[0]
	}
	name := r.ShortRouteName
	if name == "" {
		name = "unknown"
	}
	return t + "-" + name
}

// getRoutes queries the regional routing server for up to npaths routes
// between two resolved coordinates.
func (w *WazeEstimator) getRoutes(ctx context.Context, from, to domain.Coordinates, npaths int) ([]routeResult, error) {
	endpoint := w.baseURL + "/" + routingServers[w.region]

	q := url.Values{}
	q.Set("from", fmt.Sprintf("x:%v y:%v", from.Lon, from.Lat))
	q.Set("to", fmt.Sprintf("x:%v y:%v", to.Lon, to.Lat))
	q.Set("at", "0")
	q.Set("returnJSON", "true")
	q.Set("returnGeometries", "true")
	q.Set("returnInstructions", "true")
	q.Set("timeout", "60000")
	q.Set("nPaths", strconv.Itoa(npaths))
	q.Set("options", w.routeOptions())
	if w.vehicleType != "" {
		q.Set("vehicleType", w.vehicleType)
	}
	if !w.avoidSubscriptionRoads {
		q.Set("subscription", "*")
	}

	resp, err := w.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := w.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	defer resp.Body.Close()

	var decoded routingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ports.EstimationError{Reason: "decode routing response", Err: err}
	}

	if msg := rawMessageText(decoded.Error); msg != "" {
		return nil, &ports.EstimationError{Reason: msg}
	}

	if len(decoded.Alternatives) > 0 {
		out := make([]routeResult, 0, len(decoded.Alternatives))
		for _, alt := range decoded.Alternatives {
			out = append(out, alt.Response)
		}
		return out, nil
	}

	if len(decoded.Response) == 0 {
		return nil, &ports.EstimationError{Reason: "empty response"}
	}

	// The response field is an object, but some servers wrap it in a
	// single-element list.
	var single routeResult
	if err := json.Unmarshal(decoded.Response, &single); err == nil {
		return []routeResult{single}, nil
	}

	var many []routeResult
	if err := json.Unmarshal(decoded.Response, &many); err != nil || len(many) == 0 {
		return nil, &ports.EstimationError{Reason: "wrong response", Err: err}
	}
	return many[:1], nil
}

// sumRoute folds segment metrics into a single figure: minutes from
// crossTime (live traffic) or crossTimeWithoutRealTime, kilometers from
// segment lengths.
func sumRoute(segments []routeSegment, realTime bool) ports.RouteInfo {
	seconds := 0
	meters := 0
	for _, s := range segments {
		if realTime {
			seconds += s.CrossTime
		} else {
			seconds += s.CrossTimeWithoutRealTime
		}
		meters += s.Length
	}
	return ports.RouteInfo{
		Minutes:    float64(seconds) / 60.0,
		Kilometers: float64(meters) / 1000.0,
	}
}

// rawMessageText extracts a printable message from an in-band error value,
// which may be a JSON string or an arbitrary object.
func rawMessageText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
