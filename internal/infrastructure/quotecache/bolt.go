// Package quotecache implements the processed-quote cache keyed by the
// SHA-256 content hash of the uploaded file.
package quotecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/listafacil/backend/internal/domain"
)

var bucketQuotes = []byte("quotes")

// BoltCache is a bbolt-backed quote cache. Entries older than ttl are
// treated as misses; a zero ttl disables expiry.
type BoltCache struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBoltCache opens (or creates) the quote cache database at path.
func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQuotes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &BoltCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Get returns the cached quote for fileHash, or domain.ErrCacheMiss when
// absent or expired.
func (c *BoltCache) Get(ctx context.Context, fileHash string) (*domain.CachedQuote, error) {
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketQuotes).Get([]byte(fileHash)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrCacheMiss
	}

	var quote domain.CachedQuote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, fmt.Errorf("decode cached quote: %w", err)
	}
	if c.ttl > 0 && time.Since(quote.CreatedAt) > c.ttl {
		return nil, domain.ErrCacheMiss
	}
	return &quote, nil
}

// Set stores the quote entry under fileHash.
func (c *BoltCache) Set(ctx context.Context, fileHash string, quote *domain.CachedQuote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketQuotes).Put([]byte(fileHash), raw)
	})
}
