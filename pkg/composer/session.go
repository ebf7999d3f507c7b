package composer

import (
	"github.com/bastiangx/keymark/pkg/suggest"
)

// Session is an open autocomplete popup: the candidates for the word at
// Anchor and which of them is highlighted.
type Session struct {
	Matches  []string
	Selected int

	// Anchor is the byte offset where the completed word starts.
	Anchor int
	Word   string
	Prefix string
	Tier   suggest.Tier
}

// Current returns the highlighted candidate.
func (s *Session) Current() string {
	if s == nil || len(s.Matches) == 0 {
		return ""
	}
	return s.Matches[s.Selected]
}

func (s *Session) next() {
	s.Selected = (s.Selected + 1) % len(s.Matches)
}

func (s *Session) prev() {
	s.Selected = (s.Selected - 1 + len(s.Matches)) % len(s.Matches)
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Matches = append([]string(nil), s.Matches...)
	return &c
}

func sessionsEqual(a, b *Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Selected != b.Selected || a.Anchor != b.Anchor || a.Word != b.Word || len(a.Matches) != len(b.Matches) {
		return false
	}
	for i := range a.Matches {
		if a.Matches[i] != b.Matches[i] {
			return false
		}
	}
	return true
}
