package services

import (
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// MapSpans resolves flat-offset spans to document ranges using snapshot.
//
// Spans starting at or past the end of the snapshot are dropped: the document
// shrank after the text was sent. A span running to or past the end of the
// text is extrapolated from the position after the last character, which
// equals start+length unless the span crosses a block boundary. The relative
// order of spans is preserved and one bad span never fails the batch.
func MapSpans(snapshot domain.Snapshot, spans []domain.ErrorSpan) []domain.MappedRange {
	n := len(snapshot.Index)
	ranges := make([]domain.MappedRange, 0, len(spans))

	for _, span := range spans {
		if span.Offset < 0 || span.Length < 0 || span.Offset >= n {
			continue
		}

		from := snapshot.Index[span.Offset]
		var to domain.Position
		if end := span.Offset + span.Length; end < n {
			to = snapshot.Index[end]
		} else {
			to = snapshot.Index[n-1] + 1 + domain.Position(end-n)
		}
		if to < from {
			continue
		}

		ranges = append(ranges, domain.MappedRange{From: from, To: to, Span: span})
	}

	return ranges
}
