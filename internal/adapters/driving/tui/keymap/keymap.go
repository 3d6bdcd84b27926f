// Package keymap defines keybindings for the TUI.
package keymap

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Settings opens the settings view.
	Settings key.Binding

	// Back returns to the editor.
	Back key.Binding

	// Save writes the document.
	Save key.Binding

	// CheckNow analyses the document without waiting.
	CheckNow key.Binding

	// FocusError opens the tooltip for the error under the cursor.
	FocusError key.Binding

	// NextError moves the cursor to the next error.
	NextError key.Binding

	// PrevError moves the cursor to the previous error.
	PrevError key.Binding

	// Apply applies a suggestion by number.
	Apply []key.Binding

	// Ignore suppresses the focused error.
	Ignore key.Binding

	// Dismiss closes the tooltip.
	Dismiss key.Binding

	// ResetIgnored clears every ignored error.
	ResetIgnored key.Binding

	// Up, Down, Left and Right move the cursor.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Home and End jump within a line.
	Home key.Binding
	End  key.Binding

	// Select confirms a selection in lists.
	Select key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	apply := make([]key.Binding, domain.MaxReplacements)
	for i := range apply {
		n := fmt.Sprintf("alt+%d", i+1)
		apply[i] = key.NewBinding(
			key.WithKeys(n),
			key.WithHelp(n, fmt.Sprintf("apply %d", i+1)),
		)
	}

	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Settings: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "settings"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		CheckNow: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "check now"),
		),
		FocusError: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "show error"),
		),
		NextError: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next error"),
		),
		PrevError: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous error"),
		),
		Apply: apply,
		Ignore: key.NewBinding(
			key.WithKeys("alt+i"),
			key.WithHelp("alt+i", "ignore"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		ResetIgnored: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "reset ignored"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("home", "line start"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "line end"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Help, k.Quit}
}

// TooltipHelp returns keybindings shown while an error is focused.
func (k *KeyMap) TooltipHelp() []key.Binding {
	return []key.Binding{k.Ignore, k.Dismiss}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End},
		{k.Save, k.CheckNow, k.FocusError, k.NextError, k.PrevError},
		append(append([]key.Binding{}, k.Apply...), k.Ignore, k.Dismiss, k.ResetIgnored),
		{k.Settings, k.Help, k.Quit},
	}
}

// ApplyIndex returns the suggestion index bound to keyStr.
func (k *KeyMap) ApplyIndex(keyStr string) (int, bool) {
	for i, b := range k.Apply {
		if Matches(keyStr, b) {
			return i, true
		}
	}
	return 0, false
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
