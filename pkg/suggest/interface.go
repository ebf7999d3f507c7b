// Package suggest is the candidate matcher, ranking catalog keys against the word under the cursor with tiered prefix fallbacks.
package suggest

// Index is the lookup surface the match tiers run against.
type Index interface {
	// HasPrefix reports whether at least one key starts with prefix.
	HasPrefix(prefix string) bool

	// WithPrefix returns every key starting with prefix in alphabetical order.
	WithPrefix(prefix string) []string
}

// IMatcher defines the interface for candidate matchers
type IMatcher interface {
	// Match ranks catalog keys against word
	Match(catalog *Catalog, word string) Result

	// Stats returns statistics about the matcher and its cache
	Stats() map[string]int
}
