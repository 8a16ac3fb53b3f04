package cache

import (
	"context"
	"time"
)

// Store is the gateway's cache contract. Implementations must treat a miss
// and a backend error the same way (ok=false); the gateway falls through to
// the upstream call either way.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}
