package shared

import (
	"context"
	"time"
)

// KeyValueStore exposes the individually-atomic primitives the core needs
// from the shared key-value store. Operations are atomic one by one, not in
// combination; callers that need combined atomicity must layer an
// authoritative check on top (see the coupon allocator's Phase 2).
type KeyValueStore interface {
	// Plain keys
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	Delete(ctx context.Context, key string) error

	// Set membership (per-user claim markers)
	AddToSet(ctx context.Context, key, member string) (bool, error)
	RemoveFromSet(ctx context.Context, key, member string) error

	// Score-ordered structure (arrival ledger). Rank is zero-based; ties on
	// identical score resolve by the store's stable member ordering.
	OrderedAdd(ctx context.Context, key, member string, score float64) error
	OrderedRank(ctx context.Context, key, member string) (int64, bool, error)
	OrderedRemove(ctx context.Context, key, member string) error
}
