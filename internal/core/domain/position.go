package domain

// Position is an address inside the structured document's own coordinate system.
//
// Positions follow the ProseMirror convention: the document content starts at
// 0, entering or leaving a non-text node costs one position, every character
// of a text node costs one position, and a leaf inline node (such as a hard
// break) costs one position.
type Position int

// Assoc selects which side a position sticks to when content is inserted at
// exactly that position.
type Assoc int

const (
	// AssocLeft keeps the position before content inserted at it.
	AssocLeft Assoc = -1

	// AssocRight moves the position after content inserted at it.
	AssocRight Assoc = 1
)

// ScreenPosition is a location on the rendering surface (pixels, cells, ...).
// The core never interprets it; it is carried for the presentation layer.
type ScreenPosition struct {
	X int
	Y int
}

// Selection is a document range selected by the user. An empty selection
// (Anchor == Head) is a cursor.
type Selection struct {
	Anchor Position
	Head   Position
}

// From returns the smaller end of the selection.
func (s Selection) From() Position {
	return min(s.Anchor, s.Head)
}

// To returns the larger end of the selection.
func (s Selection) To() Position {
	return max(s.Anchor, s.Head)
}

// Map transforms the selection through an edit.
func (s Selection) Map(m Mapping) Selection {
	return Selection{
		Anchor: m.Map(s.Anchor, AssocRight),
		Head:   m.Map(s.Head, AssocRight),
	}
}

// Overlaps reports whether the selection touches [from, to].
func (s Selection) Overlaps(from, to Position) bool {
	return s.From() <= to && s.To() >= from
}
