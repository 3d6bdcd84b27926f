// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// Dispatched carries a session callback onto the Bubbletea goroutine.
// Update runs Fn and re-renders.
type Dispatched struct {
	Fn func()
}

// SessionChanged signals that the editor session's visible state changed.
type SessionChanged struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewEditor is the decorated editor.
	ViewEditor ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Notice shows a transient message in the status bar.
type Notice struct {
	Text string
}

// SaveRequested asks the app to write the document.
type SaveRequested struct{}

// DocumentSaved signals the document was written.
type DocumentSaved struct {
	Path string
	Err  error
}

// IgnoredReset signals that the ledger was cleared.
type IgnoredReset struct {
	Err error
}

// SuggestionApplied reports the outcome of applying a replacement.
type SuggestionApplied struct {
	Candidate string
	Err       error
}

// ErrorIgnored reports the outcome of ignoring the focused error.
type ErrorIgnored struct {
	Range domain.MappedRange
	Err   error
}

// SettingsLoaded carries the settings rows for the settings view.
type SettingsLoaded struct {
	Rows []SettingRow
	Err  error
}

// SettingRow is one config key and its effective value.
type SettingRow struct {
	Key   string
	Value string
}

// SettingSaved signals a setting was written.
type SettingSaved struct {
	Key string
	Err error
}
