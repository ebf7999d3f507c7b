package complete

import (
	"strings"

	"github.com/bastiangx/keymark/internal/utils"
	"github.com/bastiangx/keymark/pkg/entity"
	"github.com/bastiangx/keymark/pkg/suggest"
)

// Result is the buffer state after a candidate was applied.
type Result struct {
	Text     string
	Entities []entity.Entity
	Cursor   int

	// Inserted is the entity created for the candidate.
	Inserted entity.Entity
}

// Apply replaces the word at cursor with candidate and returns the new text,
// the re-anchored entity list and the cursor placed after the insertion.
// It returns false, leaving the caller's state untouched, when no completion
// context exists at cursor or candidate is empty.
func Apply(candidate, text string, cursor int, entities []entity.Entity) (Result, bool) {
	ctx, ok := Resolve(text, cursor, entities)
	if !ok {
		return Result{}, false
	}
	return ApplyAt(candidate, ctx, cursor, text, entities)
}

// ApplyAt is Apply for a context already resolved against text and entities.
// cursor is only used when candidate shares no prefix with the word.
func ApplyAt(candidate string, ctx Context, cursor int, text string, entities []entity.Entity) (Result, bool) {
	if candidate == "" || ctx.Word == "" || ctx.Start < 0 || ctx.End() > len(text) {
		return Result{}, false
	}

	prefix, tier := suggest.EffectivePrefix(ctx.Word, candidate)
	start, end := replacementRegion(ctx, utils.ClampOffset(text, cursor), prefix, tier)
	start, end = clipToNeighbours(start, end, text, entities)

	newText := text[:start] + candidate + text[end:]
	inserted := entity.NewKey(candidate, start)

	anchored := reanchor(text, entities, start, end, len(candidate)-(end-start))

	next := make([]entity.Entity, 0, len(anchored)+1)
	for _, e := range anchored {
		if e.Overlaps(inserted) {
			continue
		}
		next = append(next, e)
	}
	next = append(next, inserted)

	return Result{
		Text:     newText,
		Entities: entity.Normalize(newText, next),
		Cursor:   inserted.End,
		Inserted: inserted,
	}, true
}

// replacementRegion maps the matched prefix back onto the word. The
// last-character tier replaces the word's final byte; a candidate that matched
// nothing is inserted at the cursor; other tiers replace the word's head.
func replacementRegion(ctx Context, cursor int, prefix string, tier suggest.Tier) (int, int) {
	switch tier {
	case suggest.TierNone:
		return cursor, cursor
	case suggest.TierLastChar:
		return ctx.End() - len(prefix), ctx.End()
	default:
		return ctx.Start, ctx.Start + len(prefix)
	}
}

// clipToNeighbours shrinks [start, end) so it overlaps no existing entity.
// Entities that no longer match text are left to reanchor.
func clipToNeighbours(start, end int, text string, entities []entity.Entity) (int, int) {
	for _, e := range entities {
		if !e.Valid(text) || !e.OverlapsRange(start, end) {
			continue
		}
		if e.Start <= start {
			start = e.End
		} else {
			end = e.Start
		}
	}
	start = utils.ClampOffset(text, start)
	if end < start {
		end = start
	}
	return start, utils.ClampOffset(text, end)
}

// reanchor relocates every entity onto an occurrence of its ID in the
// pre-edit text, then moves it across the replaced region [start, end).
// Each entity claims the unused occurrence closest to its recorded Start;
// ties go to the occurrence found first. Entities with no free occurrence,
// or whose occurrence is cut by the region, are dropped.
func reanchor(text string, entities []entity.Entity, start, end, delta int) []entity.Entity {
	occurrences := make(map[string][]int)
	used := make(map[string]map[int]bool)

	out := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if e.ID == "" {
			continue
		}
		occ, ok := occurrences[e.ID]
		if !ok {
			occ = findAll(text, e.ID)
			occurrences[e.ID] = occ
			used[e.ID] = make(map[int]bool)
		}

		pos, found := closestUnused(occ, used[e.ID], e.Start)
		if !found {
			continue
		}
		used[e.ID][pos] = true

		placed := entity.Entity{Type: e.Type, ID: e.ID, Start: pos, End: pos + len(e.ID)}
		switch {
		case placed.End <= start:
		case placed.Start >= end:
			placed = placed.Shift(delta)
		default:
			continue
		}
		out = append(out, placed)
	}
	return out
}

// findAll returns every start offset of sub in s, overlapping matches included.
func findAll(s, sub string) []int {
	var positions []int
	for from := 0; from <= len(s)-len(sub); {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			break
		}
		positions = append(positions, from+i)
		from += i + 1
	}
	return positions
}

func closestUnused(positions []int, used map[int]bool, target int) (int, bool) {
	best, bestDist := 0, -1
	for _, p := range positions {
		if used[p] {
			continue
		}
		d := p - target
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist >= 0
}
