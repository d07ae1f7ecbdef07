package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/listafacil/backend/internal/domain"
)

// QuoteServiceConfig holds configuration for the quote service.
type QuoteServiceConfig struct {
	EnableDebugLogging bool
}

// QuoteService runs the full quote flow for an uploaded supplies list:
// cache lookup by content hash, document extraction through the external
// collaborator, catalog matching, then a best-effort cache save.
type QuoteService struct {
	cache              domain.QuoteCache
	files              domain.FileStore
	extractor          domain.DocumentExtractor
	pipeline           *MatchPipeline
	enableDebugLogging bool
}

// NewQuoteService creates a quote service with its dependencies.
func NewQuoteService(
	cache domain.QuoteCache,
	files domain.FileStore,
	extractor domain.DocumentExtractor,
	pipeline *MatchPipeline,
	config QuoteServiceConfig,
) *QuoteService {
	return &QuoteService{
		cache:              cache,
		files:              files,
		extractor:          extractor,
		pipeline:           pipeline,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ProcessDocument produces a quote for the uploaded document. The same file
// content always yields the cached quote once processed; cache write
// failures never fail the request.
func (s *QuoteService) ProcessDocument(ctx context.Context, upload *domain.DocumentUpload) (*domain.QuoteResult, error) {
	if upload == nil || len(upload.Content) == 0 {
		return nil, domain.ErrNoFile
	}

	fileHash := contentHash(upload.Content)

	if cached, err := s.cache.Get(ctx, fileHash); err == nil && cached != nil {
		if s.enableDebugLogging {
			log.Printf("[QUOTE] cache hit for %s", fileHash)
		}
		return &domain.QuoteResult{MatchedItems: cached.QuoteData, FromCache: true}, nil
	}

	if s.enableDebugLogging {
		log.Printf("[QUOTE] cache miss for %s, processing document %q", fileHash, upload.Filename)
	}

	items, err := s.extractor.ExtractItems(ctx, encodeDataURI(upload.ContentType, upload.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractorFailure, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoItemsExtracted
	}

	matched := s.pipeline.MatchItems(ctx, items)
	if !anyMatched(matched) {
		return nil, domain.ErrNoMatches
	}

	s.saveToCache(ctx, fileHash, upload, matched)

	return &domain.QuoteResult{MatchedItems: matched}, nil
}

// saveToCache stores the uploaded file and the quote entry. Both writes are
// best-effort: a failed save costs a future cache hit, not this request.
func (s *QuoteService) saveToCache(ctx context.Context, fileHash string, upload *domain.DocumentUpload, matched []domain.MatchedItem) {
	fileURL, err := s.files.Save(ctx, fileHash+"-"+upload.Filename, upload.Content)
	if err != nil {
		log.Printf("[QUOTE] file store save failed: %v", err)
	}

	entry := &domain.CachedQuote{
		FileURL:   fileURL,
		QuoteData: matched,
		CreatedAt: time.Now(),
	}
	if err := s.cache.Set(ctx, fileHash, entry); err != nil {
		log.Printf("[QUOTE] cache save failed for %s: %v", fileHash, err)
	}
}

// anyMatched reports whether at least one item resolved to a catalog product.
func anyMatched(items []domain.MatchedItem) bool {
	for _, item := range items {
		if item.ProductID != "" {
			return true
		}
	}
	return false
}

// contentHash is the cache key for an uploaded file: hex SHA-256 of its bytes.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// encodeDataURI wraps file content as a data URI for the extraction API.
func encodeDataURI(contentType string, content []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))
}
