package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled patterns, shared by keyword generation and item
// name normalization.
var (
	keywordPunctRegex  = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	whitespaceRunRegex = regexp.MustCompile(`\s+`)
)

// diacriticFolder strips combining marks after NFD decomposition, so
// "lápiz" and "lapiz" land on the same index keys. The catalog is Spanish
// and uploaded lists come from OCR, which drops accents unpredictably.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics returns s with diacritical marks removed. On a transform
// failure the input is returned unchanged.
func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// GenerateKeywords derives the searchable token set for a product name:
// every whole word, plus every prefix of length 4 and up for words longer
// than 3 runes, plus an accent-folded variant of each token. Tokens of one
// rune or less are discarded. The result is a set (order carries no
// meaning), deterministic and idempotent; an empty name yields nil.
func GenerateKeywords(productName string) []string {
	if productName == "" {
		return nil
	}

	cleaned := strings.ToLower(productName)
	cleaned = keywordPunctRegex.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRunRegex.ReplaceAllString(cleaned, " ")

	seen := make(map[string]struct{})
	var keywords []string
	add := func(token string) {
		if len([]rune(token)) <= 1 {
			return
		}
		if _, ok := seen[token]; ok {
			return
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	addWithFold := func(token string) {
		add(token)
		add(foldDiacritics(token))
	}

	for _, word := range strings.Split(cleaned, " ") {
		addWithFold(word)
		r := []rune(word)
		if len(r) > 3 {
			for i := 4; i <= len(r); i++ {
				addWithFold(string(r[:i]))
			}
		}
	}

	return keywords
}

// normalizeItemName produces the user-facing normalized form of an extracted
// item name: lowercased, punctuation stripped, accents folded, whitespace
// collapsed. The same form is used for exact-match confidence scoring.
func normalizeItemName(s string) string {
	cleaned := strings.ToLower(s)
	cleaned = keywordPunctRegex.ReplaceAllString(cleaned, "")
	cleaned = foldDiacritics(cleaned)
	cleaned = whitespaceRunRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
