package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/listafacil/backend/internal/domain"
)

// Confidence model. Exact full-name matches are certain; anything found
// only through token or prefix overlap scores strictly below that, in
// proportion to how much of the query the candidate's keywords cover.
// Coverage scales from zero: a candidate retrieved through one incidental
// short-word hit must land under the default threshold, not get a floor
// bonus for merely being retrieved. The ordering exact > partial > none is
// an invariant.
const (
	defaultConfidenceThreshold = 0.5

	exactMatchConfidence   = 1.0
	maxCandidateConfidence = 0.95

	// prefixWeightFactor discounts query tokens that only hit a prefix
	// keyword instead of a whole word.
	prefixWeightFactor = 0.8
)

// PipelineConfig holds configuration for the match pipeline.
type PipelineConfig struct {
	ConfidenceThreshold float64
	EnableDebugLogging  bool
}

// MatchPipeline turns a batch of extracted item names into MatchedItem
// records: candidate retrieval through the Matcher, then confidence scoring.
type MatchPipeline struct {
	matcher             *Matcher
	confidenceThreshold float64
	enableDebugLogging  bool
}

// NewMatchPipeline creates a pipeline with the given matcher and config.
func NewMatchPipeline(matcher *Matcher, config PipelineConfig) *MatchPipeline {
	threshold := config.ConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultConfidenceThreshold
	}
	return &MatchPipeline{
		matcher:             matcher,
		confidenceThreshold: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// MatchItems produces exactly one MatchedItem per extracted item, in input
// order. Items with no candidate, or whose best candidate stayed under the
// threshold, keep their normalized name and score but carry no product
// identity — unmatched items are never given a fabricated productId.
func (p *MatchPipeline) MatchItems(ctx context.Context, extractedItems []string) []domain.MatchedItem {
	results := make([]domain.MatchedItem, 0, len(extractedItems))
	for _, item := range extractedItems {
		results = append(results, p.matchItem(ctx, item))
	}
	return results
}

func (p *MatchPipeline) matchItem(ctx context.Context, item string) domain.MatchedItem {
	matched := domain.MatchedItem{NormalizedName: normalizeItemName(item)}

	candidates, err := p.matcher.FindMatchingProducts(ctx, item)
	if err != nil {
		// Index down degrades this one item to "no match"; the rest of the
		// batch proceeds.
		if p.enableDebugLogging {
			log.Printf("[PIPELINE] lookup failed for %q, treating as no match: %v", item, err)
		}
		return matched
	}

	best, confidence := bestCandidate(item, candidates)
	matched.Confidence = confidence
	if best != nil && confidence >= p.confidenceThreshold {
		matched.ProductID = best.ProductID
		matched.ProductName = best.ProductName
	}

	if p.enableDebugLogging {
		log.Printf("[PIPELINE] %q -> product=%q confidence=%.2f", item, matched.ProductID, confidence)
	}
	return matched
}

// bestCandidate scores every candidate against the query and returns the
// highest scorer with its confidence. No candidates means (nil, 0).
func bestCandidate(query string, candidates []domain.Product) (*domain.Product, float64) {
	queryNorm := normalizeItemName(query)
	queryTokens := strings.Fields(queryNorm)

	var best *domain.Product
	bestScore := 0.0
	for i := range candidates {
		score := scoreCandidate(queryNorm, queryTokens, &candidates[i])
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}
	return best, bestScore
}

// scoreCandidate computes the confidence for one (query, candidate) pair.
// An exact normalized full-name match is 1.0. Otherwise query tokens are
// checked against the candidate's keyword set — whole-word hits at full
// weight, prefix hits discounted — and the weighted coverage is scaled up
// to maxCandidateConfidence.
func scoreCandidate(queryNorm string, queryTokens []string, product *domain.Product) float64 {
	if queryNorm != "" && queryNorm == normalizeItemName(product.ProductName) {
		return exactMatchConfidence
	}
	if len(queryTokens) == 0 {
		return 0
	}

	keywords := make(map[string]struct{}, len(product.SearchKeywords))
	for _, kw := range product.SearchKeywords {
		keywords[kw] = struct{}{}
	}

	var weighted float64
	for _, token := range queryTokens {
		if _, ok := keywords[token]; ok {
			weighted += 1.0
			continue
		}
		if hasPrefixKeyword(product.SearchKeywords, token) {
			weighted += prefixWeightFactor
		}
	}

	coverage := weighted / float64(len(queryTokens))
	return maxCandidateConfidence * coverage
}

// hasPrefixKeyword reports whether any stored keyword of prefix length is a
// prefix of the token. Mirrors the index's lookup semantics.
func hasPrefixKeyword(keywords []string, token string) bool {
	for _, kw := range keywords {
		if len([]rune(kw)) >= 4 && strings.HasPrefix(token, kw) {
			return true
		}
	}
	return false
}
