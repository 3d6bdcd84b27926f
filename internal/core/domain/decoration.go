package domain

// MappedRange is an ErrorSpan resolved to document positions.
// From <= To always holds for a range produced by the mapper.
type MappedRange struct {
	From Position
	To   Position
	Span ErrorSpan
}

// Contains reports whether pos lies within [From, To).
func (r MappedRange) Contains(pos Position) bool {
	return pos >= r.From && pos < r.To
}

// Remap projects the range through an edit's mapping. The start sticks to
// the right and the end to the left, so text typed at either edge of an
// error does not extend it. ok is false when the range collapses.
func (r MappedRange) Remap(m Mapping) (MappedRange, bool) {
	from := m.Map(r.From, AssocRight)
	to := m.Map(r.To, AssocLeft)
	if from >= to {
		return MappedRange{}, false
	}
	return MappedRange{From: from, To: to, Span: r.Span}, true
}

// DecorationState is the state of a decoration store.
type DecorationState int

const (
	// DecorationsEmpty means no decorations are shown.
	DecorationsEmpty DecorationState = iota

	// DecorationsLive means a decoration set is attached to the document.
	DecorationsLive
)

// String returns a human-readable name for the state.
func (s DecorationState) String() string {
	switch s {
	case DecorationsEmpty:
		return "empty"
	case DecorationsLive:
		return "live"
	default:
		return "unknown"
	}
}

// DecorationSet is the ordered collection of mapped ranges attached to a
// document. Exactly one set is live per editor session.
type DecorationSet struct {
	// Ranges are the live ranges in the order the provider reported them.
	Ranges []MappedRange

	// Revision increases by one every time analysis results replace the set.
	Revision uint64

	// DocRevision is the document revision the ranges are valid against.
	DocRevision uint64
}

// At returns the first range containing pos.
func (d DecorationSet) At(pos Position) (MappedRange, bool) {
	for _, r := range d.Ranges {
		if r.Contains(pos) {
			return r, true
		}
	}
	return MappedRange{}, false
}
