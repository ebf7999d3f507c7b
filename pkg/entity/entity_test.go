package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	testCases := []struct {
		text        string
		ent         Entity
		want        bool
		description string
	}{
		{"alpha beta", NewKey("alpha", 0), true, "key matches text"},
		{"alpha beta", NewKey("beta", 6), true, "key at end"},
		{"alha beta", NewKey("alpha", 0), false, "identity broken"},
		{"alpha", Entity{Type: TypeKey, ID: "alpha", Start: 2, End: 7}, false, "past end"},
		{"alpha", Entity{Type: TypeKey, ID: "", Start: 2, End: 2}, false, "empty span"},
		{"alpha", Entity{Type: TypeKey, ID: "alpha", Start: -1, End: 4}, false, "negative start"},
		{"xxxxx", Entity{Type: "mention", ID: "u1", Start: 0, End: 5}, true, "non-key skips identity"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.ent.Valid(tc.text))
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := Entity{Start: 0, End: 5}
	assert.True(t, a.Overlaps(Entity{Start: 4, End: 6}))
	assert.False(t, a.Overlaps(Entity{Start: 5, End: 6}), "touching spans do not overlap")
	assert.True(t, a.Overlaps(Entity{Start: 1, End: 2}))
	assert.True(t, a.OverlapsRange(0, 1))
	assert.False(t, a.OverlapsRange(5, 5))
}

func TestNormalizeDropsInvalidAndOverlapping(t *testing.T) {
	text := "alpha beta gamma"
	list := []Entity{
		NewKey("gamma", 11),
		NewKey("beta", 6),
		NewKey("alpha", 0),
		NewKey("eta", 7),                               // overlaps beta
		{Type: TypeKey, ID: "zeta", Start: 11, End: 15}, // identity broken
	}

	got := Normalize(text, list)
	require.Len(t, got, 3)
	assert.Equal(t, []Entity{NewKey("alpha", 0), NewKey("beta", 6), NewKey("gamma", 11)}, got)

	// input untouched
	assert.Equal(t, NewKey("gamma", 11), list[0])
}

func TestLookups(t *testing.T) {
	list := []Entity{NewKey("ab", 0), NewKey("cd", 3), NewKey("ef", 8)}

	e, ok := EndingAt(list, 5)
	require.True(t, ok)
	assert.Equal(t, "cd", e.ID)

	_, ok = EndingAt(list, 4)
	assert.False(t, ok)

	e, ok = LastEndingBefore(list, 9)
	require.True(t, ok)
	assert.Equal(t, "cd", e.ID)

	_, ok = LastEndingBefore(list, 2)
	assert.False(t, ok)
}

func TestSegments(t *testing.T) {
	text := "use alpha and beta"
	segs := Segments(text, []Entity{NewKey("beta", 14), NewKey("alpha", 4)})

	require.Len(t, segs, 4)
	assert.Equal(t, Segment{Text: "use "}, segs[0])
	assert.True(t, segs[1].IsEntity)
	assert.Equal(t, "alpha", segs[1].Text)
	assert.Equal(t, " and ", segs[2].Text)
	assert.Equal(t, "beta", segs[3].Text)

	var joined string
	for _, s := range segs {
		joined += s.Text
	}
	assert.Equal(t, text, joined)

	assert.Nil(t, Segments("", nil))
	assert.Equal(t, []Segment{{Text: "plain"}}, Segments("plain", nil))
}

func TestEqualAndClone(t *testing.T) {
	a := []Entity{NewKey("x", 0)}
	b := Clone(a)
	assert.True(t, Equal(a, b))
	b[0].Start = 3
	assert.False(t, Equal(a, b))
	assert.Nil(t, Clone(nil))
}
