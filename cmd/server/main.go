package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"trip-planner-service/internal/adapters/cachestore"
	"trip-planner-service/internal/adapters/waze"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires a cache store and the Waze estimator behind ports and starts the
// HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	region := config.Get("WAZE_REGION", "IL")

	zone, err := time.LoadLocation(config.Get("CACHE_TZ", "Asia/Jerusalem"))
	if err != nil {
		log.Fatalf("invalid CACHE_TZ: %v", err)
	}

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, zone)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	var opts []waze.Option
	if vt := os.Getenv("WAZE_VEHICLE_TYPE"); vt != "" {
		opts = append(opts, waze.WithVehicleType(vt))
	}
	estimator, err := waze.NewWazeEstimator(region, opts...)
	if err != nil {
		log.Fatal(err)
	}

	cache := services.NewEstimateCache(estimator, store, nil, zone)
	if err := cache.Load(ctx); err != nil {
		// A cold cache is an acceptable starting point.
		log.Printf("estimate cache load failed, starting empty: %v", err)
	}

	planner := services.NewTripPlanner(cache)
	router := api.NewRouter(planner, estimator, zone)

	// Timeouts are tuned for cold-cache trip planning (upstream API latency).
	log.Printf("Server listening addr=:%s region=%s", port, region)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildStore selects the estimate store backend from CACHE_BACKEND:
// file (default), sqlite, postgres, or redis.
func buildStore(ctx context.Context, zone *time.Location) (ports.EstimateStore, func(), error) {
	noop := func() {}

	switch backend := strings.ToLower(config.Get("CACHE_BACKEND", "file")); backend {
	case "file":
		path := config.Get("CACHE_FILE", "data/waze_dict.json")
		return cachestore.NewFileStore(path, zone), noop, nil

	case "sqlite":
		sqlDB, err := openSqlite(config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			return nil, noop, err
		}
		if err := cachestore.InitSqliteSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, noop, err
		}
		return cachestore.NewSqliteStore(sqlDB, zone), func() { sqlDB.Close() }, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required for the postgres cache backend")
		}
		sqlDB, err := db.Open(databaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := cachestore.InitSQLSchema(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, noop, err
		}
		return cachestore.NewSQLStore(sqlDB, zone), func() { sqlDB.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.Get("REDIS_ADDR", "localhost:6379")})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("verify redis connection: %w", err)
		}
		key := config.Get("REDIS_CACHE_KEY", "")
		return cachestore.NewRedisStore(client, key, zone), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown CACHE_BACKEND %q", backend)
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqlDB, nil
}
