package domain

// Snapshot is the immutable result of flattening a document.
//
// Text holds the plain-text projection and Index maps every character of
// Text (by code point, not byte) to the document position it came from.
// len(Index) always equals the number of code points in Text.
type Snapshot struct {
	// Text is the plain-text projection of every text node in document order.
	Text string

	// Index maps flat offsets to document positions.
	Index []Position
}

// RuneSubstring returns runes[offset:offset+length] as a string, clamped to
// the slice bounds. A negative offset or length yields the empty string.
func RuneSubstring(runes []rune, offset, length int) string {
	if offset < 0 || length <= 0 || offset >= len(runes) {
		return ""
	}
	end := offset + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[offset:end])
}
