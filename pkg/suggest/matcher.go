package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Tier identifies which fallback produced a match list.
type Tier uint8

const (
	// TierNone means nothing matched.
	TierNone Tier = iota
	// TierPrefix matched the whole word as a prefix.
	TierPrefix
	// TierLastChar matched the word's last character, for users who typed past the real prefix.
	TierLastChar
	// TierTruncated matched a right-truncated word.
	TierTruncated
)

func (t Tier) String() string {
	switch t {
	case TierPrefix:
		return "prefix"
	case TierLastChar:
		return "last-char"
	case TierTruncated:
		return "truncated"
	default:
		return "none"
	}
}

// Result is an alphabetical match list plus the prefix that produced it.
type Result struct {
	Matches []string
	Prefix  string
	Tier    Tier
}

// Empty reports whether nothing matched.
func (r Result) Empty() bool {
	return len(r.Matches) == 0
}

// selectTier walks the tiers in order and returns the first prefix with matches.
func selectTier(word string, idx Index) (string, Tier) {
	if word == "" {
		return "", TierNone
	}
	if idx.HasPrefix(word) {
		return word, TierPrefix
	}
	if len(word) > 1 {
		last := word[len(word)-1:]
		if idx.HasPrefix(last) {
			return last, TierLastChar
		}
	}
	for prefix := word[:len(word)-1]; prefix != ""; prefix = prefix[:len(prefix)-1] {
		if idx.HasPrefix(prefix) {
			return prefix, TierTruncated
		}
	}
	return "", TierNone
}

// MatchIndex ranks the keys of idx against word.
func MatchIndex(idx Index, word string) Result {
	prefix, tier := selectTier(word, idx)
	if tier == TierNone {
		return Result{}
	}
	return Result{Matches: idx.WithPrefix(prefix), Prefix: prefix, Tier: tier}
}

// EffectivePrefix returns the part of word that candidate was matched on and
// the tier that matched it, using the same tiers as Match. Every key of a
// match list shares one effective prefix, so this reproduces the list's
// prefix for any member. The prefix is empty when candidate matches no tier.
func EffectivePrefix(word, candidate string) (string, Tier) {
	return selectTier(word, singleKey(candidate))
}

var _ IMatcher = (*Matcher)(nil)

// Matcher ranks catalog keys and memoises results per word until the catalog
// it was asked about changes.
type Matcher struct {
	cache   *MatchCache
	limit   int
	current *Catalog
	mu      sync.Mutex
}

// NewMatcher returns a matcher with an LRU of cacheSize words (0 disables
// caching) that trims match lists to limit entries (0 keeps all).
func NewMatcher(cacheSize, limit int) *Matcher {
	m := &Matcher{limit: limit}
	if cacheSize > 0 {
		m.cache = NewMatchCache(cacheSize)
	}
	return m
}

// Match ranks the keys of catalog against word.
func (m *Matcher) Match(catalog *Catalog, word string) Result {
	if catalog.Len() == 0 || word == "" {
		return Result{}
	}

	m.mu.Lock()
	if m.current != catalog {
		if m.cache != nil && m.current != nil {
			log.Debugf("Catalog swapped, dropping %d cached match lists", m.cache.Len())
			m.cache.Reset()
		}
		m.current = catalog
	}
	m.mu.Unlock()

	if m.cache != nil {
		if res, ok := m.cache.Get(word); ok {
			return res
		}
	}

	res := MatchIndex(catalog, word)
	if m.limit > 0 && len(res.Matches) > m.limit {
		res.Matches = res.Matches[:m.limit]
	}

	if m.cache != nil {
		m.cache.Put(word, res)
	}
	return res
}

// Stats returns cache statistics.
func (m *Matcher) Stats() map[string]int {
	stats := map[string]int{"limit": m.limit}
	if m.cache != nil {
		for k, v := range m.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
