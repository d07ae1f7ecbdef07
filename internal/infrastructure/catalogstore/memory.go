package catalogstore

import (
	"context"
	"sync"

	"github.com/listafacil/backend/internal/domain"
)

// MemoryIndex is a thread-safe in-memory catalog index with the same lookup
// contract as BoltIndex. Used in tests and when no store path is configured.
type MemoryIndex struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	inverted map[string]map[string]struct{}
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		products: make(map[string]domain.Product),
		inverted: make(map[string]map[string]struct{}),
	}
}

// Upsert replaces the entry for product.ProductID, dropping stale postings.
func (s *MemoryIndex) Upsert(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(product)
	return nil
}

// UpsertBatch applies a whole chunk under one lock acquisition.
func (s *MemoryIndex) UpsertBatch(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range products {
		s.upsertLocked(product)
	}
	return nil
}

func (s *MemoryIndex) upsertLocked(product domain.Product) {
	if old, ok := s.products[product.ProductID]; ok {
		for _, kw := range old.SearchKeywords {
			if ids := s.inverted[kw]; ids != nil {
				delete(ids, product.ProductID)
				if len(ids) == 0 {
					delete(s.inverted, kw)
				}
			}
		}
	}

	s.products[product.ProductID] = product
	for _, kw := range product.SearchKeywords {
		ids := s.inverted[kw]
		if ids == nil {
			ids = make(map[string]struct{})
			s.inverted[kw] = ids
		}
		ids[product.ProductID] = struct{}{}
	}
}

// FindByAnyKeyword mirrors BoltIndex semantics: a product matches when a
// probed token equals one of its keywords or a prefix keyword of it.
func (s *MemoryIndex) FindByAnyKeyword(ctx context.Context, tokens []string, limit int) ([]domain.Product, error) {
	if len(tokens) == 0 || limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var products []domain.Product
	seen := make(map[string]struct{})
	for _, token := range tokens {
		for _, probe := range probeKeys(token) {
			for id := range s.inverted[probe] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				products = append(products, s.products[id])
				if len(products) >= limit {
					return products, nil
				}
			}
		}
	}
	return products, nil
}

// Get returns the stored product by id, mainly for tests asserting index
// state.
func (s *MemoryIndex) Get(productID string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[productID]
	return product, ok
}

// Len returns the number of stored products.
func (s *MemoryIndex) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
