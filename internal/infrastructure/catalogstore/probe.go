// Package catalogstore provides the catalog index implementations: a
// bbolt-backed persistent store (forward map productId -> product plus an
// inverted keyword index, kept consistent under full-overwrite upserts), an
// in-memory store with the same contract, and a small read-only fallback
// catalog for running without a store.
package catalogstore

// minPrefixProbe is the shortest stored keyword that may match a probed
// token by prefix. The keyword generator only emits prefix tokens at length
// 4 and up, so shorter whole words must match exactly — otherwise "no"
// would match every token starting with "no".
const minPrefixProbe = 4

// probeKeys expands one query token into the index keys it can hit: the
// token itself, then each proper prefix long enough to exist as a prefix
// keyword, longest first. A stored keyword like "lapi" therefore matches
// the query token "lapices".
func probeKeys(token string) []string {
	r := []rune(token)
	keys := []string{token}
	for i := len(r) - 1; i >= minPrefixProbe; i-- {
		keys = append(keys, string(r[:i]))
	}
	return keys
}
