package driving

import (
	"context"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// EditorSession is one decorated editor. Every method must be called on the
// goroutine that owns the session (the one its Dispatcher runs callbacks on).
type EditorSession interface {
	// ID returns the session identifier.
	ID() string

	// Start subscribes to the editing surface and schedules the first check.
	Start()

	// Close unsubscribes and stops pending timers and requests.
	Close()

	// Decorations returns the live error ranges.
	Decorations() []domain.MappedRange

	// DecorationAt returns the live error range containing pos.
	DecorationAt(pos domain.Position) (domain.MappedRange, bool)

	// Focus returns the active error, if any.
	Focus() (domain.Focus, bool)

	// Checking reports whether an analysis request is outstanding.
	Checking() bool

	// IgnoredCount returns the number of distinct ignored errors.
	IgnoredCount() int

	// ResetIgnored clears the ledger and schedules a debounced re-check.
	ResetIgnored(ctx context.Context) error

	// CheckNow analyses the current document without waiting for the quiet period.
	CheckNow()

	// PointerEnter reports the pointer moving onto an error.
	PointerEnter(r domain.MappedRange, screen domain.ScreenPosition)

	// PointerLeave reports the pointer leaving an error.
	PointerLeave()

	// TooltipEnter reports the pointer moving into the tooltip.
	TooltipEnter()

	// TooltipLeave reports the pointer leaving the tooltip.
	TooltipLeave()

	// Click focuses an error immediately.
	Click(r domain.MappedRange, screen domain.ScreenPosition)

	// ClickOutside dismisses the active error.
	ClickOutside()

	// Dismiss clears the active error.
	Dismiss()

	// Replace substitutes the active error with candidate.
	Replace(candidate string) error

	// ReplaceAt substitutes the active error with its i-th suggestion.
	ReplaceAt(i int) error

	// Ignore suppresses the active error and re-checks immediately.
	Ignore(ctx context.Context) error

	// Subscribe registers fn to run after every visible state change and
	// returns a function that removes it.
	Subscribe(fn func()) (unsubscribe func())
}

// SessionFactory creates editor sessions over editing surfaces. The
// dispatcher decides which goroutine runs the session's callbacks.
type SessionFactory interface {
	NewSession(surface driven.EditingSurface, dispatcher driven.Dispatcher) EditorSession
}
