/*
Package composer is the stateful message-input engine.

A Composer owns one buffer: its text, caret, entity set and the open
autocomplete session. Hosts forward every buffer change with Edit and every
caret move with MoveCursor, drive the popup with Next, Prev, Accept and
Cancel, and render from State.

Apart from the catalog, a Composer is driven from a single goroutine. The
catalog is the only state a background fetch touches; it is swapped
atomically and picked up by the next event or an explicit Rematch.
*/
package composer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/keymark/internal/utils"
	"github.com/bastiangx/keymark/pkg/catalog"
	"github.com/bastiangx/keymark/pkg/complete"
	"github.com/bastiangx/keymark/pkg/entity"
	"github.com/bastiangx/keymark/pkg/suggest"
	"github.com/bastiangx/keymark/pkg/tracker"
)

// State is a snapshot of the buffer for rendering. It shares no memory
// with the Composer.
type State struct {
	Text     string
	Cursor   int
	Entities []entity.Entity

	// Session is nil when no popup is open.
	Session *Session
}

// Options configures a Composer. The zero value is usable.
type Options struct {
	Source catalog.Source
	Logger *log.Logger

	// MaxMatches trims every match list; 0 keeps all.
	MaxMatches int
	// CacheSize is the number of words whose match lists are memoised; 0 disables it.
	CacheSize int
}

type Composer struct {
	text     string
	cursor   int
	entities []entity.Entity
	session  *Session
	word     complete.Context
	resolved bool

	catalog    atomic.Pointer[suggest.Catalog]
	generation atomic.Uint64
	closed     atomic.Bool
	storeMu    sync.Mutex

	source   catalog.Source
	matcher  suggest.IMatcher
	log      *log.Logger
	onChange func(State)
}

// New returns an empty Composer. It does not fetch the catalog; call
// Refresh or RefreshAsync for that.
func New(opts Options) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := &Composer{
		source:  opts.Source,
		matcher: suggest.NewMatcher(opts.CacheSize, opts.MaxMatches),
		log:     logger,
	}
	c.catalog.Store(suggest.NewCatalog(nil))
	return c
}

// OnChange registers fn to be called after any operation that changed the
// entity set or the session. fn runs on the caller's goroutine.
func (c *Composer) OnChange(fn func(State)) {
	c.onChange = fn
}

// Edit records a buffer change from (prevText, prevCursor) to
// (newText, newCursor). When prevText disagrees with the text the Composer
// last saw, its own record wins: the host missed an event in between.
func (c *Composer) Edit(prevText string, prevCursor int, newText string, newCursor int) {
	if prevText != c.text {
		c.log.Debug("Previous text out of sync, using last known state", "host", len(prevText), "known", len(c.text))
		prevText, prevCursor = c.text, c.cursor
	}
	newCursor = utils.ClampOffset(newText, newCursor)

	before, beforeSession := c.entities, c.session
	c.entities = tracker.Adjust(tracker.Edit{
		PrevText:   prevText,
		PrevCursor: utils.ClampOffset(prevText, prevCursor),
		NewText:    newText,
		NewCursor:  newCursor,
	}, c.entities)
	c.text, c.cursor = newText, newCursor

	c.rematch(true)
	c.notify(before, beforeSession)
}

// SetText is Edit from the Composer's last known state.
func (c *Composer) SetText(text string, cursor int) {
	c.Edit(c.text, c.cursor, text, cursor)
}

// MoveCursor records a caret move without a text change. An open session
// keeps its selection while the word under the caret stays the same.
func (c *Composer) MoveCursor(cursor int) {
	cursor = utils.ClampOffset(c.text, cursor)
	if cursor == c.cursor {
		return
	}
	beforeSession := c.session
	c.cursor = cursor
	c.rematch(false)
	c.notify(c.entities, beforeSession)
}

// Rematch recomputes the session against the current catalog. Hosts call it
// after a background refresh has landed.
func (c *Composer) Rematch() {
	beforeSession := c.session
	c.rematch(true)
	c.notify(c.entities, beforeSession)
}

func (c *Composer) rematch(force bool) {
	cat := c.catalog.Load()
	if c.text == "" || cat.Len() == 0 {
		c.clearSession()
		return
	}

	ctx, ok := complete.Resolve(c.text, c.cursor, c.entities)
	if !ok {
		c.clearSession()
		return
	}
	if !force && c.resolved && ctx == c.word {
		return
	}
	c.word, c.resolved = ctx, true

	res := c.matcher.Match(cat, ctx.Word)
	if res.Empty() {
		c.session = nil
		return
	}
	c.session = &Session{
		Matches: res.Matches,
		Anchor:  ctx.Start,
		Word:    ctx.Word,
		Prefix:  res.Prefix,
		Tier:    res.Tier,
	}
	c.log.Debug("Autocomplete", "word", ctx.Word, "tier", res.Tier, "matches", len(res.Matches))
}

func (c *Composer) clearSession() {
	c.session = nil
	c.resolved = false
}

// Next highlights the following candidate, wrapping around.
func (c *Composer) Next() bool {
	if c.session == nil {
		return false
	}
	before := c.session.clone()
	c.session.next()
	c.notify(c.entities, before)
	return true
}

// Prev highlights the preceding candidate, wrapping around.
func (c *Composer) Prev() bool {
	if c.session == nil {
		return false
	}
	before := c.session.clone()
	c.session.prev()
	c.notify(c.entities, before)
	return true
}

// Accept applies the highlighted candidate.
func (c *Composer) Accept() bool {
	if c.session == nil {
		return false
	}
	return c.Pick(c.session.Current())
}

// Pick applies candidate to the word under the caret, whether or not it is
// in the open session. It returns false and changes nothing when there is no
// word to replace.
func (c *Composer) Pick(candidate string) bool {
	res, ok := complete.Apply(candidate, c.text, c.cursor, c.entities)
	if !ok {
		return false
	}

	before, beforeSession := c.entities, c.session
	c.text, c.cursor, c.entities = res.Text, res.Cursor, res.Entities
	c.clearSession()

	c.log.Debug("Applied candidate", "key", candidate, "at", res.Inserted.Start)
	c.notify(before, beforeSession)
	return true
}

// Cancel closes the session.
func (c *Composer) Cancel() bool {
	if c.session == nil {
		return false
	}
	beforeSession := c.session
	c.session = nil
	c.notify(c.entities, beforeSession)
	return true
}

// Reset replaces the buffer, for instance on a conversation switch. The
// caret moves to the end and every entity is dropped.
func (c *Composer) Reset(text string) {
	before, beforeSession := c.entities, c.session
	c.text, c.cursor, c.entities = text, len(text), nil
	c.clearSession()
	c.notify(before, beforeSession)
}

// State returns a copy of the buffer state.
func (c *Composer) State() State {
	return State{
		Text:     c.text,
		Cursor:   c.cursor,
		Entities: entity.Clone(c.entities),
		Session:  c.session.clone(),
	}
}

// CatalogSize returns the number of keys currently offered.
func (c *Composer) CatalogSize() int {
	return c.catalog.Load().Len()
}

// MatcherStats reports the match cache counters.
func (c *Composer) MatcherStats() map[string]int {
	return c.matcher.Stats()
}

// SetCatalog replaces the candidate keys and rematches.
func (c *Composer) SetCatalog(keys []string) {
	c.storeMu.Lock()
	c.generation.Add(1)
	c.catalog.Store(suggest.NewCatalog(keys))
	c.storeMu.Unlock()
	c.Rematch()
}

// Refresh fetches the catalog synchronously and rematches. A failed fetch
// leaves the catalog empty. It returns the number of keys loaded.
func (c *Composer) Refresh(ctx context.Context) int {
	gen := c.generation.Add(1)
	keys := catalog.Fetch(ctx, c.source, c.log)
	if !c.store(gen, keys) {
		return c.CatalogSize()
	}
	c.Rematch()
	return len(keys)
}

// RefreshAsync fetches the catalog in the background and returns a channel
// closed once the fetch has finished. Only the most recent fetch may land;
// results of a superseded fetch, or of one finishing after Close, are
// discarded. The session is not recomputed from the background goroutine;
// call Rematch once the channel is closed.
func (c *Composer) RefreshAsync(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	gen := c.generation.Add(1)
	go func() {
		defer close(done)
		keys := catalog.Fetch(ctx, c.source, c.log)
		c.store(gen, keys)
	}()
	return done
}

func (c *Composer) store(gen uint64, keys []string) bool {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	if c.closed.Load() || c.generation.Load() != gen {
		c.log.Debug("Discarding stale catalog", "keys", len(keys))
		return false
	}
	c.catalog.Store(suggest.NewCatalog(keys))
	c.log.Info("Catalog loaded", "keys", len(keys))
	return true
}

// Close stops any pending fetch from landing.
func (c *Composer) Close() {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()
	c.closed.Store(true)
	c.generation.Add(1)
}

func (c *Composer) notify(before []entity.Entity, beforeSession *Session) {
	if c.onChange == nil {
		return
	}
	if entity.Equal(before, c.entities) && sessionsEqual(beforeSession, c.session) {
		return
	}
	c.onChange(c.State())
}
