package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"trip-planner-service/internal/adapters/cachestore"
	"trip-planner-service/internal/adapters/waze"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/services"

	"github.com/joho/godotenv"
)

// tripplan plans a multi-stop trip from the command line and prints when to
// leave. Estimates are cached in the same dict file the server's file
// backend uses.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	src := flag.String("src", "", "trip origin (address or \"lat, lon\")")
	dst := flag.String("dst", "", "trip destination")
	stops := flag.String("stops", "", "intermediate stops with breaks, e.g. \"Haifa,30m,Acre,1h\"")
	arrival := flag.String("arrival", "", "desired arrival time today, HH:MM")
	region := flag.String("region", config.Get("WAZE_REGION", "IL"), "Waze region (US, EU, IL, AU)")
	cacheFile := flag.String("cache", config.Get("CACHE_FILE", "data/waze_dict.json"), "estimate cache file")
	flag.Parse()

	if *src == "" || *dst == "" || *arrival == "" {
		log.Fatal("-src, -dst and -arrival are required")
	}

	zone, err := time.LoadLocation(config.Get("CACHE_TZ", "Asia/Jerusalem"))
	if err != nil {
		log.Fatalf("invalid CACHE_TZ: %v", err)
	}

	stopList, breaks, err := parseStops(*stops)
	if err != nil {
		log.Fatal(err)
	}

	arriveAt, err := parseArrival(*arrival, zone)
	if err != nil {
		log.Fatal(err)
	}

	estimator, err := waze.NewWazeEstimator(*region)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	store := cachestore.NewFileStore(*cacheFile, zone)
	cache := services.NewEstimateCache(estimator, store, nil, zone)
	if err := cache.Load(ctx); err != nil {
		log.Printf("estimate cache load failed, starting empty: %v", err)
	}

	locations := append([]string{*src}, append(stopList, *dst)...)

	planner := services.NewTripPlanner(cache)
	itinerary, err := planner.PlanTrip(ctx, services.PlanTripRequest{
		Locations:      locations,
		Breaks:         breaks,
		DesiredArrival: arriveAt,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf(
		"Leave %s at %s to reach %s by %s.\n",
		*src,
		itinerary.RecommendedDeparture.Format("15:04"),
		*dst,
		arriveAt.Format("15:04"),
	)
}

// parseStops splits a "stop,break,stop,break" list where breaks carry an
// "m" (minutes) or "h" (hours) suffix. A trailing stop without a break gets
// zero.
func parseStops(s string) ([]string, []float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil, nil
	}

	items := strings.Split(s, ",")

	var stops []string
	var breaks []float64
	for i := 0; i < len(items); i += 2 {
		stops = append(stops, strings.TrimSpace(items[i]))

		if i+1 >= len(items) {
			break
		}

		b := strings.TrimSpace(items[i+1])
		switch {
		case strings.HasSuffix(b, "h"):
			hours, err := strconv.Atoi(strings.TrimSuffix(b, "h"))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid break %q", b)
			}
			breaks = append(breaks, float64(hours*60))
		case strings.HasSuffix(b, "m"):
			minutes, err := strconv.Atoi(strings.TrimSuffix(b, "m"))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid break %q", b)
			}
			breaks = append(breaks, float64(minutes))
		default:
			return nil, nil, fmt.Errorf("invalid break format %q (want e.g. 30m or 1h)", b)
		}
	}

	return stops, breaks, nil
}

// parseArrival resolves an HH:MM clock time to today's date in the zone.
func parseArrival(hhmm string, zone *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -arrival %q (want HH:MM): %w", hhmm, err)
	}

	now := time.Now().In(zone)
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, zone), nil
}
