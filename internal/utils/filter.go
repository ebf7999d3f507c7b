package utils

import (
	"strings"
)

// KeyFilter drops duplicate and blank catalog keys while keeping first-seen order.
type KeyFilter struct {
	seenKeys map[string]bool
}

// NewKeyFilter creates an empty filter.
func NewKeyFilter() *KeyFilter {
	return &KeyFilter{seenKeys: make(map[string]bool)}
}

// ShouldInclude reports whether key is new and non-blank, marking it as seen.
// Keys are compared verbatim; candidate matching is case-sensitive.
func (f *KeyFilter) ShouldInclude(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	if f.seenKeys[key] {
		return false
	}
	f.seenKeys[key] = true
	return true
}

// UniqueKeys returns keys without duplicates or blanks.
func UniqueKeys(keys []string) []string {
	f := NewKeyFilter()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if f.ShouldInclude(k) {
			out = append(out, k)
		}
	}
	return out
}
