package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// MatchCache is a small LRU of match results keyed by the word typed.
// Typing and deleting around the same word hits it repeatedly.
type MatchCache struct {
	results     map[string]Result
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	maxWords    int
	mu          sync.Mutex
}

func NewMatchCache(maxWords int) *MatchCache {
	return &MatchCache{
		results:    make(map[string]Result, maxWords),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

// Get returns a copy of the cached result for word.
func (mc *MatchCache) Get(word string) (Result, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	res, ok := mc.results[word]
	if !ok {
		mc.misses++
		return Result{}, false
	}
	mc.hits++
	mc.markAccessed(word)
	res.Matches = append([]string(nil), res.Matches...)
	return res, true
}

// Put stores res for word, evicting the least recently used word when full.
func (mc *MatchCache) Put(word string, res Result) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.results[word]; !exists && len(mc.results) >= mc.maxWords {
		mc.evictLRU()
	}
	res.Matches = append([]string(nil), res.Matches...)
	mc.results[word] = res
	mc.markAccessed(word)
}

// Reset drops every cached result.
func (mc *MatchCache) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.results = make(map[string]Result, mc.maxWords)
	mc.accessTime = make(map[string]int64, mc.maxWords)
}

func (mc *MatchCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.results)
}

func (mc *MatchCache) Stats() map[string]int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return map[string]int{
		"cacheWords":  len(mc.results),
		"maxWords":    mc.maxWords,
		"cacheHits":   mc.hits,
		"cacheMisses": mc.misses,
	}
}

func (mc *MatchCache) markAccessed(word string) {
	mc.accessCount++
	mc.accessTime[word] = mc.accessCount
}

func (mc *MatchCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = math.MaxInt64

	for word, accessTime := range mc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}

	if oldestWord != "" {
		delete(mc.results, oldestWord)
		delete(mc.accessTime, oldestWord)
		log.Debugf("Evicted word '%s' from match cache", oldestWord)
	}
}
