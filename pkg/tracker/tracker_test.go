package tracker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/keymark/pkg/entity"
)

func TestChangePosition(t *testing.T) {
	ins := Edit{PrevText: "ab", PrevCursor: 1, NewText: "axb", NewCursor: 2}
	assert.True(t, ins.IsInsertion())
	assert.Equal(t, 1, ins.ChangePosition())

	del := Edit{PrevText: "axb", PrevCursor: 2, NewText: "ab", NewCursor: 1}
	assert.True(t, del.IsDeletion())
	assert.Equal(t, 1, del.ChangePosition())

	repl := Edit{PrevText: "ab", PrevCursor: 1, NewText: "xb", NewCursor: 1}
	assert.False(t, repl.IsInsertion())
	assert.False(t, repl.IsDeletion())
	assert.Equal(t, 1, repl.ChangePosition())
}

func TestAdjust(t *testing.T) {
	alpha := entity.NewKey("alpha", 0)

	testCases := []struct {
		edit        Edit
		in          []entity.Entity
		want        []entity.Entity
		description string
	}{
		{
			Edit{"alpha ", 6, "alpha xyz", 9},
			[]entity.Entity{alpha},
			[]entity.Entity{alpha},
			"insertion after entity keeps it unchanged",
		},
		{
			Edit{"alpha ", 3, "alha ", 2},
			[]entity.Entity{alpha},
			[]entity.Entity{},
			"deleting inside entity drops it",
		},
		{
			Edit{"alpha", 0, "xx alpha", 3},
			[]entity.Entity{alpha},
			[]entity.Entity{entity.NewKey("alpha", 3)},
			"insertion before entity shifts it",
		},
		{
			Edit{"ab alpha", 2, "a alpha", 1},
			[]entity.Entity{entity.NewKey("alpha", 3)},
			[]entity.Entity{entity.NewKey("alpha", 2)},
			"deletion before entity shifts it back",
		},
		{
			Edit{"alpha", 2, "alXpha", 3},
			[]entity.Entity{alpha},
			[]entity.Entity{},
			"insertion inside entity drops it",
		},
		{
			Edit{"foo", 3, "fo", 2},
			[]entity.Entity{entity.NewKey("foo", 0)},
			[]entity.Entity{},
			"trimming trailing byte breaks identity",
		},
		{
			Edit{"alpha beta", 10, "alpha bet", 9},
			[]entity.Entity{alpha, entity.NewKey("beta", 6)},
			[]entity.Entity{alpha},
			"only the touched entity is dropped",
		},
		{
			Edit{"alpha", 5, "", 0},
			[]entity.Entity{alpha},
			nil,
			"empty buffer clears everything",
		},
		{
			Edit{"alpha", 5, "alpha", 2},
			[]entity.Entity{alpha},
			[]entity.Entity{alpha},
			"cursor-only change is a no-op",
		},
		{
			Edit{"aa", 2, "a", 1},
			[]entity.Entity{entity.NewKey("a", 0), entity.NewKey("a", 1)},
			[]entity.Entity{entity.NewKey("a", 0)},
			"moved span never lands on an unmoved twin",
		},
		{
			Edit{"alpha", 5, "alphb", 5},
			[]entity.Entity{alpha},
			[]entity.Entity{},
			"same-length replacement rechecks identity",
		},
		{
			Edit{"x", 1, "xy", 2},
			nil,
			nil,
			"no entities in, none out",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := Adjust(tc.edit, tc.in)
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	in := []entity.Entity{entity.NewKey("alpha", 0)}
	_ = Adjust(Edit{"alpha", 0, "xalpha", 1}, in)
	assert.Equal(t, entity.NewKey("alpha", 0), in[0])
}

// Random single edits over a buffer seeded with key entities must leave every
// surviving entity in bounds, identity-preserving and non-overlapping.
func TestAdjustInvariantsRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := "ab _"

	for iter := 0; iter < 2000; iter++ {
		text, ents := seedBuffer(rng)
		for step := 0; step < 8; step++ {
			cursor := rng.Intn(len(text) + 1)
			var edit Edit
			if rng.Intn(2) == 0 || cursor == 0 {
				n := 1 + rng.Intn(3)
				ins := make([]byte, n)
				for i := range ins {
					ins[i] = alphabet[rng.Intn(len(alphabet))]
				}
				next := text[:cursor] + string(ins) + text[cursor:]
				edit = Edit{text, cursor, next, cursor + n}
			} else {
				n := 1 + rng.Intn(cursor)
				next := text[:cursor-n] + text[cursor:]
				edit = Edit{text, cursor, next, cursor - n}
			}

			ents = Adjust(edit, ents)
			text = edit.NewText
			requireInvariants(t, text, ents)
		}
	}
}

func seedBuffer(rng *rand.Rand) (string, []entity.Entity) {
	words := []string{"ab", "ba", "a", "bab", "aa"}
	var text string
	var ents []entity.Entity
	for i := 0; i < 4; i++ {
		w := words[rng.Intn(len(words))]
		if rng.Intn(2) == 0 {
			ents = append(ents, entity.NewKey(w, len(text)))
		}
		text += w
		if rng.Intn(2) == 0 {
			text += " "
		}
	}
	return text, ents
}

func requireInvariants(t *testing.T, text string, ents []entity.Entity) {
	t.Helper()
	for i, e := range ents {
		require.Truef(t, e.Valid(text), "entity %v invalid for %q", e, text)
		for _, o := range ents[i+1:] {
			require.Falsef(t, e.Overlaps(o), "entities %v and %v overlap in %q", e, o, text)
		}
	}
}
