package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoFile is returned when an upload request carries no file
	ErrNoFile = errors.New("no file provided")

	// ErrWrongFileType is returned when a catalog upload is not a CSV file
	ErrWrongFileType = errors.New("catalog file must be a CSV")

	// ErrMissingColumns is returned when a catalog file lacks the required
	// productId or productName header columns
	ErrMissingColumns = errors.New(`catalog file must contain "productId" and "productName" columns`)

	// ErrEmptyCatalog is returned when a catalog file parses to zero rows
	ErrEmptyCatalog = errors.New("catalog file contains no rows")

	// ErrCatalogParse is returned when a catalog file cannot be parsed;
	// no rows are written in that case
	ErrCatalogParse = errors.New("failed to parse catalog file")

	// ErrIndexUnavailable is returned when the catalog index cannot be
	// queried; the match pipeline degrades it to an empty candidate list
	// for the affected item
	ErrIndexUnavailable = errors.New("catalog index unavailable")

	// ErrNoItemsExtracted is returned when the extraction service found no
	// items in the uploaded document
	ErrNoItemsExtracted = errors.New("no items could be extracted from the document")

	// ErrNoMatches is returned when none of the extracted items matched a
	// catalog product
	ErrNoMatches = errors.New("no catalog products matched the extracted items")

	// ErrExtractorFailure is returned when the extraction API request fails
	ErrExtractorFailure = errors.New("document extraction request failed")

	// ErrCacheMiss is returned when a quote is not found in the cache
	ErrCacheMiss = errors.New("quote cache miss")

	// ErrReadOnlyCatalog is returned when writing to the built-in fallback
	// catalog, which cannot be ingested into
	ErrReadOnlyCatalog = errors.New("fallback catalog is read-only")
)
