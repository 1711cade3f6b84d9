// Package cache provides the TTL caches shared by the analysis agents.
// Three named instances exist, differing only in TTL: review (10 min),
// comparison (5 min) and price (3 min). Entries are JSON-encoded so the
// in-memory and Redis backends behave identically.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key/value store safe for concurrent use across requests.
// Get decodes the stored entry into dest and reports whether it was present
// and unexpired.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
}

// Agent cache TTLs.
const (
	ReviewTTL     = 10 * time.Minute
	ComparisonTTL = 5 * time.Minute
	PriceTTL      = 3 * time.Minute
)

// Set bundles the three agent caches.
type Set struct {
	Review     Cache
	Comparison Cache
	Price      Cache
}

// NewMemorySet builds the in-process cache set.
func NewMemorySet() *Set {
	return &Set{
		Review:     NewMemory(ReviewTTL),
		Comparison: NewMemory(ComparisonTTL),
		Price:      NewMemory(PriceTTL),
	}
}
