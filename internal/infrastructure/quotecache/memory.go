package quotecache

import (
	"context"
	"sync"
	"time"

	"github.com/listafacil/backend/internal/domain"
)

// MemoryCache is a thread-safe in-memory quote cache with the same TTL
// behavior as BoltCache. Used in tests and when no cache path is configured.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]domain.CachedQuote
	ttl  time.Duration
}

// NewMemoryCache creates an empty in-memory quote cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]domain.CachedQuote),
		ttl:  ttl,
	}
}

// Get returns the cached quote for fileHash, or domain.ErrCacheMiss when
// absent or expired.
func (c *MemoryCache) Get(ctx context.Context, fileHash string) (*domain.CachedQuote, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	quote, ok := c.data[fileHash]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if c.ttl > 0 && time.Since(quote.CreatedAt) > c.ttl {
		return nil, domain.ErrCacheMiss
	}
	copied := quote
	return &copied, nil
}

// Set stores the quote entry under fileHash.
func (c *MemoryCache) Set(ctx context.Context, fileHash string, quote *domain.CachedQuote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[fileHash] = *quote
	return nil
}

// Len returns the number of cached quotes, for tests.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
