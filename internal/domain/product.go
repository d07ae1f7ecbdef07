package domain

import "time"

// Product represents a single sellable entry in the catalog.
// SearchKeywords is always derived from ProductName by the keyword
// generator at ingestion time; it is never hand-edited.
type Product struct {
	ProductID      string   `json:"productId"`
	ProductName    string   `json:"productName"`
	SearchKeywords []string `json:"searchKeywords,omitempty"`
}

// CatalogRow is one row of a parsed catalog ingestion file. Rows missing
// either field are skipped by the ingestion controller without being counted.
type CatalogRow struct {
	ProductID   string
	ProductName string
}

// MatchedItem is the result of matching one extracted item against the
// catalog. ProductID and ProductName are set only when a candidate cleared
// the confidence threshold; they are never defaulted for unmatched items.
type MatchedItem struct {
	NormalizedName string  `json:"normalizedName"`
	ProductID      string  `json:"productId,omitempty"`
	ProductName    string  `json:"productName,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// QuoteResult is the full outcome of processing an uploaded supplies list.
type QuoteResult struct {
	MatchedItems []MatchedItem `json:"matchedItems"`
	FromCache    bool          `json:"fromCache"`
}

// CachedQuote is the persisted cache entry for a processed document,
// keyed by the SHA-256 hash of the file content.
type CachedQuote struct {
	FileURL   string        `json:"fileURL"`
	QuoteData []MatchedItem `json:"quoteData"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DocumentUpload carries an uploaded supplies-list document through the
// quote flow.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}
