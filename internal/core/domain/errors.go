package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange indicates a document position outside the current document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrCrossBlockRange indicates a text replacement spanning more than one textblock.
	// Replacements are limited to a single paragraph, heading or code block.
	ErrCrossBlockRange = errors.New("range spans multiple blocks")

	// ErrUnsupportedType indicates an unknown node type or storage backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Analysis Errors.

	// ErrProviderUnavailable indicates the analysis provider could not be reached.
	ErrProviderUnavailable = errors.New("analysis provider unavailable")

	// ErrProviderResponse indicates the provider returned a non-2xx status
	// or a body that could not be decoded.
	ErrProviderResponse = errors.New("analysis provider returned an invalid response")

	// Interaction Errors.

	// ErrNoActiveFocus indicates an action that needs a focused error was
	// invoked while nothing is focused.
	ErrNoActiveFocus = errors.New("no active error")

	// ErrFocusBusy indicates the focused error is already being replaced or ignored.
	ErrFocusBusy = errors.New("active error is settling")

	// ErrNoSuchReplacement indicates a replacement index outside the candidate list.
	ErrNoSuchReplacement = errors.New("no such replacement")
)
