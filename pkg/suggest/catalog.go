package suggest

import (
	"errors"
	"sort"

	"github.com/bastiangx/keymark/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var errStopVisit = errors.New("stop visit")

// Catalog is an immutable set of candidate keys indexed by a patricia trie.
// A refreshed catalog replaces the old one as a whole.
type Catalog struct {
	trie *patricia.Trie
	keys []string
}

// NewCatalog builds a catalog from keys, dropping blanks and duplicates.
func NewCatalog(keys []string) *Catalog {
	unique := utils.UniqueKeys(keys)
	trie := patricia.NewTrie()
	for _, k := range unique {
		trie.Insert(patricia.Prefix(k), true)
	}
	sort.Strings(unique)

	log.Debugf("Built catalog with %d keys (%d supplied)", len(unique), len(keys))
	return &Catalog{trie: trie, keys: unique}
}

// Len returns the number of distinct keys.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a sorted copy of all keys.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// HasPrefix reports whether any key starts with prefix.
func (c *Catalog) HasPrefix(prefix string) bool {
	if c.Len() == 0 {
		return false
	}
	found := false
	err := c.trie.VisitSubtree(patricia.Prefix(prefix), func(patricia.Prefix, patricia.Item) error {
		found = true
		return errStopVisit
	})
	if err != nil && !errors.Is(err, errStopVisit) {
		log.Errorf("Error visiting catalog subtree: %v", err)
	}
	return found
}

// WithPrefix returns every key starting with prefix, alphabetically.
func (c *Catalog) WithPrefix(prefix string) []string {
	if c.Len() == 0 {
		return nil
	}
	var out []string
	err := c.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting catalog subtree: %v", err)
		return nil
	}
	sort.Strings(out)
	return out
}

// singleKey indexes one candidate; the applier uses it to re-derive which
// tier produced a selected key.
type singleKey string

func (s singleKey) HasPrefix(prefix string) bool {
	return len(prefix) <= len(s) && string(s[:len(prefix)]) == prefix
}

func (s singleKey) WithPrefix(prefix string) []string {
	if s.HasPrefix(prefix) {
		return []string{string(s)}
	}
	return nil
}
