package driven

import "github.com/custodia-labs/proofmark/internal/core/domain"

// DocumentVisitor receives the text-bearing nodes of a document.
type DocumentVisitor interface {
	// VisitText is called once per text node, in document order.
	// pos is the document position of the node's first character.
	VisitText(pos domain.Position, text string)
}

// Document is read access to a structured document.
type Document interface {
	// Walk visits every text node in document order.
	Walk(v DocumentVisitor)

	// Size returns the content size of the document in positions.
	Size() int

	// TextBetween returns the text of all text nodes in [from, to).
	TextBetween(from, to domain.Position) string

	// Revision increases by one with every change.
	Revision() uint64
}

// EditingSurface is the mutable editor the core decorates.
// All methods must be called from the session's thread.
type EditingSurface interface {
	// Document returns the current document.
	Document() Document

	// ReplaceRange replaces [from, to) with text and returns the edit's mapping.
	// Returns domain.ErrOutOfRange for positions outside the document and
	// domain.ErrCrossBlockRange when the range spans several textblocks.
	ReplaceRange(from, to domain.Position, text string) (domain.Mapping, error)

	// Selection returns the current selection.
	Selection() domain.Selection

	// SetSelection moves the selection. Positions are clamped to the document.
	SetSelection(sel domain.Selection)

	// Subscribe registers fn for every document change and returns a
	// function that removes the subscription.
	Subscribe(fn func(domain.DocumentChange)) (unsubscribe func())
}
