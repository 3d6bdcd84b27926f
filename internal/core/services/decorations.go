package services

import (
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// DecorationStore holds the single live decoration set of an editor session.
// All updates go through Apply. Not safe for concurrent use.
type DecorationStore struct {
	state domain.DecorationState
	set   domain.DecorationSet
}

// NewDecorationStore creates an empty store.
func NewDecorationStore() *DecorationStore {
	return &DecorationStore{state: domain.DecorationsEmpty}
}

// Apply reduces ev into the store.
func (s *DecorationStore) Apply(ev domain.DocumentEvent) {
	switch e := ev.(type) {
	case domain.AnalysisArrived:
		// Replaced wholesale, even when empty, so stale highlights disappear.
		ranges := make([]domain.MappedRange, len(e.Ranges))
		copy(ranges, e.Ranges)
		s.set = domain.DecorationSet{
			Ranges:      ranges,
			Revision:    s.set.Revision + 1,
			DocRevision: e.DocRevision,
		}
		s.state = domain.DecorationsLive

	case domain.Edited:
		if s.state != domain.DecorationsLive {
			return
		}
		s.set.Ranges = remapRanges(s.set.Ranges, e.Mapping, e.Size)
		s.set.DocRevision = e.Revision

	case domain.ForceCleared:
		s.state = domain.DecorationsEmpty
		s.set = domain.DecorationSet{Revision: s.set.Revision, DocRevision: e.Revision}
	}
}

// remapRanges projects ranges through m, dropping collapsed ranges and
// ranges that no longer fit a document of the given size.
func remapRanges(ranges []domain.MappedRange, m domain.Mapping, size int) []domain.MappedRange {
	kept := ranges[:0:0]
	for _, r := range ranges {
		mapped, ok := r.Remap(m)
		if !ok || mapped.From < 0 || int(mapped.To) > size {
			continue
		}
		kept = append(kept, mapped)
	}
	return kept
}

// Decorations returns a copy of the live ranges, or nil when empty.
func (s *DecorationStore) Decorations() []domain.MappedRange {
	if s.state != domain.DecorationsLive || len(s.set.Ranges) == 0 {
		return nil
	}
	out := make([]domain.MappedRange, len(s.set.Ranges))
	copy(out, s.set.Ranges)
	return out
}

// At returns the live range containing pos.
func (s *DecorationStore) At(pos domain.Position) (domain.MappedRange, bool) {
	if s.state != domain.DecorationsLive {
		return domain.MappedRange{}, false
	}
	return s.set.At(pos)
}

// State returns the store state.
func (s *DecorationStore) State() domain.DecorationState {
	return s.state
}

// Revision returns the number of analysis results applied so far.
func (s *DecorationStore) Revision() uint64 {
	return s.set.Revision
}
