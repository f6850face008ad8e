package cache

import (
	"context"
	"time"
)

// Cache is a key/TTL read-through cache handed to handlers that serve
// cacheable lookups. Implementations must be safe for concurrent use;
// callers must stay correct when every call misses.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
