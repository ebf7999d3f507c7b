/*
Package complete resolves which word an autocomplete would replace and
applies a chosen candidate to the buffer.

Entities are atomic tokens. Resolve allows typing right next to one, but never
proposes a completion for text inside an entity or a word that an entity
already covers. Apply rewrites the text and the entity list as one unit.
*/
package complete

import (
	"github.com/bastiangx/keymark/internal/utils"
	"github.com/bastiangx/keymark/pkg/entity"
)

// Context is the word eligible for completion and where it starts.
type Context struct {
	Word  string
	Start int
}

// End returns the offset just past the word.
func (c Context) End() int {
	return c.Start + len(c.Word)
}

// Resolve returns the completion context at cursor, or false when no
// completion applies. It is a pure function of its arguments.
func Resolve(text string, cursor int, entities []entity.Entity) (Context, bool) {
	if text == "" {
		return Context{}, false
	}
	cursor = utils.ClampOffset(text, cursor)

	ctx, ok := locateWord(text, cursor, entities)
	if !ok || ctx.Word == "" {
		return Context{}, false
	}

	for _, e := range entities {
		if cursor > e.Start && cursor < e.End {
			return Context{}, false
		}
		if e.Contains(ctx.Start, ctx.End()) {
			return Context{}, false
		}
	}
	return ctx, true
}

func locateWord(text string, cursor int, entities []entity.Entity) (Context, bool) {
	// Resuming right after a placed entity: complete what follows the cursor.
	if _, ok := entity.EndingAt(entities, cursor); ok {
		return wordAfter(text, cursor)
	}

	if prev, ok := entity.LastEndingBefore(entities, cursor); ok {
		word, idx := utils.FirstWord(text[prev.End:cursor])
		if idx >= 0 {
			return Context{Word: word, Start: prev.End + idx}, true
		}
		return wordAfter(text, cursor)
	}

	word := utils.TrailingWord(text[:cursor])
	if word == "" {
		return Context{}, false
	}
	start := cursor - len(word)
	for _, e := range entities {
		if e.Start == start && e.End == cursor && e.ID == word {
			return wordAfter(text, cursor)
		}
	}
	return Context{Word: word, Start: start}, true
}

func wordAfter(text string, cursor int) (Context, bool) {
	word := utils.LeadingWord(text[cursor:])
	if word == "" {
		return Context{}, false
	}
	return Context{Word: word, Start: cursor}, true
}
