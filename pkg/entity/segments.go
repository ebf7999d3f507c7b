package entity

// Segment is a run of buffer text, either plain or covered by an entity.
type Segment struct {
	Text     string
	IsEntity bool
	Entity   Entity
}

// Segments splits text into alternating plain and entity runs for highlight
// rendering. Entities that are invalid for text or overlap an earlier one are
// rendered as plain text.
func Segments(text string, list []Entity) []Segment {
	if text == "" {
		return nil
	}
	valid := Normalize(text, list)
	if len(valid) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(valid)+1)
	last := 0
	for _, e := range valid {
		if e.Start > last {
			segments = append(segments, Segment{Text: text[last:e.Start]})
		}
		segments = append(segments, Segment{Text: text[e.Start:e.End], IsEntity: true, Entity: e})
		last = e.End
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}
