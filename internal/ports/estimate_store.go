package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Port: a boundary for persisting the estimate cache to durable storage.
//
// Save receives the full snapshot in insertion order and is called on every
// cache miss; implementations must preserve that order on Load, since lookup
// semantics depend on it (earliest-inserted match wins).
type EstimateStore interface {
	// Load all persisted estimate records in insertion order.
	Load(ctx context.Context) ([]domain.EstimateRecord, error)
	// Save the complete snapshot, replacing any previous contents.
	Save(ctx context.Context, records []domain.EstimateRecord) error
}
