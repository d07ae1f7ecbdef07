package usecase

import "strings"

// TokenizeQuery normalizes a free-text query into the token space used by
// the catalog index: lowercase, split on whitespace runs. No deduplication
// and no punctuation stripping — deliberately narrower than
// GenerateKeywords, so a query whose punctuation differs from the catalog's
// can miss. That asymmetry is inherited behavior; symmetrizing it would
// change recall and precision, so it stays until the product owner decides.
// An empty query yields an empty slice and the Matcher short-circuits
// without touching the index.
func TokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
