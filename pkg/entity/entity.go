/*
Package entity defines the annotated spans tracked over a message buffer.

An Entity marks a byte range of the buffer text. Key entities are content
linked: the text under the range must always equal the entity ID. Lists of
entities are treated as sets with no two members overlapping; the order is
derived by sorting on Start whenever it matters.
*/
package entity

import (
	"fmt"
	"sort"
)

// TypeKey marks an entity inserted from the candidate key catalog.
const TypeKey = "key"

// Entity is a half-open span [Start, End) over the buffer text.
type Entity struct {
	Type  string `msgpack:"ty" json:"type"`
	ID    string `msgpack:"id" json:"id"`
	Start int    `msgpack:"s" json:"start"`
	End   int    `msgpack:"e" json:"end"`
}

// NewKey returns a key entity covering id at start.
func NewKey(id string, start int) Entity {
	return Entity{Type: TypeKey, ID: id, Start: start, End: start + len(id)}
}

// Len returns the span length in bytes.
func (e Entity) Len() int {
	return e.End - e.Start
}

// Shift returns e moved by delta bytes.
func (e Entity) Shift(delta int) Entity {
	e.Start += delta
	e.End += delta
	return e
}

// InBounds reports whether the span is non-empty and lies inside a text of textLen bytes.
func (e Entity) InBounds(textLen int) bool {
	return e.Start >= 0 && e.Start < e.End && e.End <= textLen
}

// Valid reports whether e can annotate text: bounds must hold, and for key
// entities the covered text must equal the ID.
func (e Entity) Valid(text string) bool {
	if !e.InBounds(len(text)) {
		return false
	}
	if e.Type == TypeKey && text[e.Start:e.End] != e.ID {
		return false
	}
	return true
}

// Overlaps reports whether the two spans share at least one byte.
func (e Entity) Overlaps(o Entity) bool {
	return e.Start < o.End && o.Start < e.End
}

// OverlapsRange reports whether e shares at least one byte with [start, end).
func (e Entity) OverlapsRange(start, end int) bool {
	return e.Start < end && start < e.End
}

// Contains reports whether [start, end) lies wholly inside e.
func (e Entity) Contains(start, end int) bool {
	return start >= e.Start && end <= e.End
}

func (e Entity) String() string {
	return fmt.Sprintf("%s:%q[%d:%d]", e.Type, e.ID, e.Start, e.End)
}

// Clone returns a copy of list that shares no backing array with it.
func Clone(list []Entity) []Entity {
	if len(list) == 0 {
		return nil
	}
	return append([]Entity(nil), list...)
}

// SortByStart orders list in place by Start, then End.
func SortByStart(list []Entity) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Start != list[j].Start {
			return list[i].Start < list[j].Start
		}
		return list[i].End < list[j].End
	})
}

// Normalize returns a new list sorted by Start holding only the entities of
// list that are valid for text. When two entities overlap, the one sorted
// first is kept.
func Normalize(text string, list []Entity) []Entity {
	sorted := Clone(list)
	SortByStart(sorted)

	out := make([]Entity, 0, len(sorted))
	for _, e := range sorted {
		if !e.Valid(text) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Overlaps(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Equal reports whether a and b hold the same entities in the same order.
func Equal(a, b []Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EndingAt returns the first entity whose End equals offset.
func EndingAt(list []Entity, offset int) (Entity, bool) {
	for _, e := range list {
		if e.End == offset {
			return e, true
		}
	}
	return Entity{}, false
}

// LastEndingBefore returns the entity with the greatest End strictly below offset.
func LastEndingBefore(list []Entity, offset int) (Entity, bool) {
	var best Entity
	found := false
	for _, e := range list {
		if e.End >= offset {
			continue
		}
		if !found || e.End > best.End {
			best = e
			found = true
		}
	}
	return best, found
}
