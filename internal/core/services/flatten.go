package services

import (
	"strings"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// snapshotBuilder is the DocumentVisitor used by Flatten. It records one
// index entry per code point so that flat offsets line up with the text the
// provider sees.
type snapshotBuilder struct {
	text  strings.Builder
	index []domain.Position
}

func (b *snapshotBuilder) VisitText(pos domain.Position, text string) {
	i := 0
	for _, r := range text {
		b.text.WriteRune(r)
		b.index = append(b.index, pos+domain.Position(i))
		i++
	}
}

// Flatten projects every text node of doc, in document order, into a
// Snapshot. Block boundaries and leaf inline nodes contribute no characters.
// A nil or empty document yields an empty snapshot.
func Flatten(doc driven.Document) domain.Snapshot {
	if doc == nil {
		return domain.Snapshot{}
	}

	b := &snapshotBuilder{}
	doc.Walk(b)

	return domain.Snapshot{
		Text:  b.text.String(),
		Index: b.index,
	}
}
