package domain

// FocusState is the interaction state of the error the user is looking at.
type FocusState string

const (
	// FocusIdle means no error is hovered or focused.
	FocusIdle FocusState = "idle"

	// FocusHovering means the pointer rests on an error and the hover delay is running.
	FocusHovering FocusState = "hovering"

	// FocusFocused means the tooltip for an error is shown.
	FocusFocused FocusState = "focused"

	// FocusReplacing means a replacement was applied and the success state is shown.
	FocusReplacing FocusState = "replacing"

	// FocusIgnoring means the error was ignored and the confirmation is shown.
	FocusIgnoring FocusState = "ignoring"
)

// String returns the state name.
func (s FocusState) String() string {
	return string(s)
}

// IsSettling reports whether the state is a post-action feedback state.
func (s FocusState) IsSettling() bool {
	return s == FocusReplacing || s == FocusIgnoring
}

// Focus is the transient "active error" of an editor session.
// At most one exists per session.
type Focus struct {
	// State is the current interaction state.
	State FocusState

	// Range is the error the user is looking at.
	Range MappedRange

	// Screen is where the error was found on screen, for tooltip placement.
	Screen ScreenPosition

	// InteractionLock is set while the pointer is inside the tooltip.
	InteractionLock bool

	// Applied is the replacement shown in the success state.
	Applied string
}
