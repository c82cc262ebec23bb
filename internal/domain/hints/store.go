package hints

import (
	"context"
	"time"
)

// Store defines the cache used to avoid regenerating hints. Implementations
// must be safe for concurrent use; the service performs no locking of its own.
type Store interface {
	Get(ctx context.Context, key string) (CachedHints, bool, error)
	Set(ctx context.Context, key string, hints CachedHints, ttl time.Duration) error
}
