package domain

// StepMap describes one replaced region of a document edit: the content in
// [Start, Start+OldSize) of the old document became NewSize positions of
// new content.
type StepMap struct {
	Start   Position
	OldSize int
	NewSize int
}

// Map transforms pos through the step. The returned flag reports whether
// the position sat strictly inside deleted content.
func (s StepMap) Map(pos Position, assoc Assoc) (Position, bool) {
	end := s.Start + Position(s.OldSize)
	if pos < s.Start {
		return pos, false
	}
	if pos > end {
		return pos + Position(s.NewSize-s.OldSize), false
	}

	side := assoc
	deleted := false
	if s.OldSize > 0 {
		switch pos {
		case s.Start:
			side = AssocLeft
		case end:
			side = AssocRight
		default:
			deleted = true
		}
	}
	if side < 0 {
		return s.Start, deleted
	}
	return s.Start + Position(s.NewSize), deleted
}

// Mapping is the position transform of a single document change. Steps
// apply in order, each against the document produced by the previous one.
type Mapping struct {
	Steps []StepMap
}

// NewMapping creates a mapping from the given steps.
func NewMapping(steps ...StepMap) Mapping {
	return Mapping{Steps: steps}
}

// Map transforms pos through every step of the mapping.
func (m Mapping) Map(pos Position, assoc Assoc) Position {
	mapped, _ := m.MapResult(pos, assoc)
	return mapped
}

// MapResult transforms pos and reports whether it was deleted by any step.
func (m Mapping) MapResult(pos Position, assoc Assoc) (Position, bool) {
	deleted := false
	for _, step := range m.Steps {
		var d bool
		pos, d = step.Map(pos, assoc)
		deleted = deleted || d
	}
	return pos, deleted
}

