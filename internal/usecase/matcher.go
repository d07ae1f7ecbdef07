package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/listafacil/backend/internal/domain"
)

const (
	// maxProbeTokens caps how many query tokens are sent to the index in a
	// single lookup. The backing document store rejects disjunctive queries
	// wider than 10 keys, so longer queries only ever probe their first 10
	// tokens. Load-shedding policy, kept as-is.
	maxProbeTokens = 10

	// candidateLimit bounds how many candidates one lookup returns.
	candidateLimit = 5
)

// Matcher retrieves catalog candidates for free-text item names.
type Matcher struct {
	index              domain.CatalogIndex
	enableDebugLogging bool
}

// NewMatcher creates a matcher over the given catalog index.
func NewMatcher(index domain.CatalogIndex, enableDebugLogging bool) *Matcher {
	return &Matcher{
		index:              index,
		enableDebugLogging: enableDebugLogging,
	}
}

// FindMatchingProducts returns up to five candidate products for the query.
// A lookup failure is reported as a wrapped domain.ErrIndexUnavailable so
// callers can tell "no candidate" apart from "index down"; the match
// pipeline degrades both to an empty candidate list so one unavailable
// lookup costs a single item's match quality, not the whole batch.
func (m *Matcher) FindMatchingProducts(ctx context.Context, query string) ([]domain.Product, error) {
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > maxProbeTokens {
		tokens = tokens[:maxProbeTokens]
	}

	products, err := m.index.FindByAnyKeyword(ctx, tokens, candidateLimit)
	if err != nil {
		if m.enableDebugLogging {
			log.Printf("[MATCH] index lookup failed for %q: %v", query, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	if m.enableDebugLogging {
		log.Printf("[MATCH] %q -> %d candidate(s)", query, len(products))
	}
	return products, nil
}

// FindMatchingProduct returns only the top-ranked candidate, or nil when the
// query matched nothing. This is the shape consumed by the normalization
// collaborator's tool call.
func (m *Matcher) FindMatchingProduct(ctx context.Context, query string) (*domain.Product, error) {
	products, err := m.FindMatchingProducts(ctx, query)
	if err != nil || len(products) == 0 {
		return nil, err
	}
	top := products[0]
	return &top, nil
}
