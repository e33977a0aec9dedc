package cache

import (
	"context"
	"time"
)

// VerdictCache namespaces detection verdicts under the verdict key prefix.
// It satisfies the detection service's cache contract.
type VerdictCache struct {
	cache Cache
}

// NewVerdictCache wraps a Cache for verdict storage.
func NewVerdictCache(cache Cache) *VerdictCache {
	return &VerdictCache{cache: cache}
}

func (v *VerdictCache) Get(ctx context.Context, key string, dest interface{}) error {
	return v.cache.GetJSON(ctx, VerdictPrefix+key, dest)
}

func (v *VerdictCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return v.cache.SetJSON(ctx, VerdictPrefix+key, value, ttl)
}
