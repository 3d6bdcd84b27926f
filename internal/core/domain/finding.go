package domain

// Finding is a span located in plain text, as reported by one-shot checks.
type Finding struct {
	// Span is the provider's match.
	Span ErrorSpan

	// Text is the flagged text.
	Text string

	// Line is the 1-based line of the first flagged character.
	Line int

	// Column is the 1-based column (in characters) of the first flagged character.
	Column int
}
