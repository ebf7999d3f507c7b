/*
Package tracker keeps entity spans aligned with the buffer across edits.

Adjust is a pure function of the previous and next buffer state. It relocates
entities that sit after the edit and drops any entity whose covered text no
longer matches its identity. It never repairs or shrinks an entity: a stale
annotation pointing at the wrong text is worse than no annotation.
*/
package tracker

import (
	"github.com/bastiangx/keymark/pkg/entity"
)

// Edit describes one buffer transition between two input events.
type Edit struct {
	PrevText   string
	PrevCursor int
	NewText    string
	NewCursor  int
}

// LengthDiff is the signed byte delta of the edit.
func (e Edit) LengthDiff() int {
	return len(e.NewText) - len(e.PrevText)
}

// IsInsertion reports whether the buffer grew.
func (e Edit) IsInsertion() bool {
	return e.LengthDiff() > 0
}

// IsDeletion reports whether the buffer shrank.
func (e Edit) IsDeletion() bool {
	return e.LengthDiff() < 0
}

// ChangePosition is the offset the edit is anchored at: the cursor before an
// insertion, the cursor after a deletion or same-length replacement.
func (e Edit) ChangePosition() int {
	if e.IsInsertion() {
		return e.PrevCursor
	}
	return e.NewCursor
}

// Adjust returns the entities that survive edit, relocated to the new text.
// The input slice is never modified.
func Adjust(edit Edit, entities []entity.Entity) []entity.Entity {
	if len(entities) == 0 {
		return nil
	}
	if edit.NewText == "" {
		return nil
	}
	if edit.PrevText == edit.NewText {
		return entity.Clone(entities)
	}

	diff := edit.LengthDiff()
	changePos := edit.ChangePosition()

	var kept, moved []entity.Entity
	for _, e := range entities {
		// Fully before the edit: offsets stay, content must still match.
		if e.End <= changePos {
			if e.Valid(edit.NewText) {
				kept = append(kept, e)
			}
			continue
		}
		// At/after the edit and straddling it both move with the edit.
		m := e.Shift(diff)
		if m.Valid(edit.NewText) {
			moved = append(moved, m)
		}
	}

	// A deletion can slide a moved span onto an unmoved one with the same
	// text; the unmoved span is the one still backed by its original bytes.
	out := make([]entity.Entity, 0, len(kept)+len(moved))
	out = append(out, kept...)
	for _, m := range moved {
		if overlapsAny(out, m) {
			continue
		}
		out = append(out, m)
	}
	entity.SortByStart(out)
	return out
}

func overlapsAny(list []entity.Entity, e entity.Entity) bool {
	for _, o := range list {
		if o.Overlaps(e) {
			return true
		}
	}
	return false
}
