package domain

import "context"

// CatalogIndex defines the read/write contract of the product catalog store.
// The index is a shared external resource: the core only ever mutates it
// through full-overwrite upserts keyed by productId, so concurrent writers
// racing on the same product converge to last-write-wins.
type CatalogIndex interface {
	// Upsert replaces any existing entry for product.ProductID with the
	// given name and keyword set. Full overwrite, not a merge.
	Upsert(ctx context.Context, product Product) error

	// UpsertBatch applies a chunk of upserts in a single transactional
	// write. Callers keep chunks within the store's batch ceiling.
	UpsertBatch(ctx context.Context, products []Product) error

	// FindByAnyKeyword returns up to limit products whose keyword set
	// intersects the probed tokens. No tie-break order is guaranteed
	// beyond "each result matched at least one token".
	FindByAnyKeyword(ctx context.Context, tokens []string, limit int) ([]Product, error)
}

// QuoteCache defines the interface for the processed-quote cache, keyed by
// the content hash of the uploaded file.
type QuoteCache interface {
	// Get returns the cached quote for fileHash, or ErrCacheMiss.
	Get(ctx context.Context, fileHash string) (*CachedQuote, error)
	Set(ctx context.Context, fileHash string, quote *CachedQuote) error
}

// DocumentExtractor defines the interface to the external AI collaborator
// that turns an uploaded document into a list of raw item names.
type DocumentExtractor interface {
	ExtractItems(ctx context.Context, documentDataURI string) ([]string, error)
}

// FileStore persists uploaded documents and returns a URL for the stored copy.
type FileStore interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}
