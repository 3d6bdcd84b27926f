// Package richtext is an in-memory structured editing surface.
//
// Documents are ProseMirror-shaped node trees (doc, paragraph, heading,
// blockquote, lists, code block, text with marks, hard break) addressed with
// ProseMirror positions: the document content starts at 0, entering or
// leaving a block costs one position, and every character or hard break
// costs one. Documents are immutable; every edit produces a new Document and
// notifies subscribers with the edit's Mapping.
package richtext
