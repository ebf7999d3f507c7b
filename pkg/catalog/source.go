/*
Package catalog loads the candidate keys offered by autocomplete.

A Source is anything that can produce the key list: the keys endpoint of a
chat backend, a local key file, or a fixed slice. Fetch wraps a Source with
the degrade-to-empty behaviour the editor relies on: a failed fetch is logged
and leaves the editor with no candidates rather than an error to handle.
*/
package catalog

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/keymark/internal/utils"
)

// Source produces the current candidate keys.
type Source interface {
	Keys(ctx context.Context) ([]string, error)
}

// StaticSource serves a fixed key list.
type StaticSource []string

// Keys returns a copy of the list.
func (s StaticSource) Keys(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// Fetch reads src and returns its keys without blanks or duplicates.
// Errors are logged on logger (the default logger when nil) and yield an
// empty list. A nil src yields an empty list.
func Fetch(ctx context.Context, src Source, logger *log.Logger) []string {
	if src == nil {
		return nil
	}
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	keys, err := src.Keys(ctx)
	if err != nil {
		logger.Warn("Key fetch failed, continuing without candidates", "err", err)
		return nil
	}

	keys = utils.UniqueKeys(keys)
	logger.Debugf("Fetched %d keys in %v", len(keys), time.Since(start))
	return keys
}
