// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateChecking State = "checking"
	StateError    State = "error"
	StateFocused  State = "focused"
)

// Bar displays the document name, analysis progress, error and ignored
// counts, and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model

	state   State
	message string
	name    string
	dirty   bool
	errors  int
	ignored int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = s.Muted

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init starts the spinner.
func (s *Bar) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the spinner. Ticks keep flowing only while checking.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	if s.state != StateChecking {
		return s, nil
	}
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	parts := make([]string, 0, 4)
	if s.name != "" {
		name := s.name
		if s.dirty {
			name += "*"
		}
		parts = append(parts, s.styles.Normal.Render(name))
	}

	switch s.state {
	case StateChecking:
		parts = append(parts, s.spinner.View()+s.styles.Muted.Render(" Checking grammar..."))
	case StateError:
		msg := "Error"
		if s.message != "" {
			msg = fmt.Sprintf("Error: %s", s.message)
		}
		parts = append(parts, s.styles.Error.Render(msg))
	case StateReady, StateFocused:
		switch {
		case s.message != "":
			parts = append(parts, s.styles.Success.Render(s.message))
		case s.errors == 1:
			parts = append(parts, s.styles.Warning.Render("1 issue"))
		case s.errors > 1:
			parts = append(parts, s.styles.Warning.Render(fmt.Sprintf("%d issues", s.errors)))
		default:
			parts = append(parts, s.styles.Muted.Render("No issues"))
		}
	}

	if s.ignored > 0 {
		parts = append(parts, s.styles.Muted.Render(fmt.Sprintf("%d ignored", s.ignored)))
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateFocused {
		bindings = s.keymap.TooltipHelp()
	}
	if s.ignored > 0 && s.state != StateFocused {
		bindings = append([]key.Binding{s.keymap.ResetIgnored}, bindings...)
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state. Entering StateChecking restarts the
// spinner.
func (s *Bar) SetState(state State) tea.Cmd {
	prev := s.state
	s.state = state
	if state == StateChecking && prev != StateChecking {
		return s.spinner.Tick
	}
	return nil
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient message. An empty string clears it.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the document name and whether it has unsaved changes.
func (s *Bar) SetDocument(name string, dirty bool) {
	s.name = name
	s.dirty = dirty
}

// SetCounts sets the number of live errors and ignored errors.
func (s *Bar) SetCounts(errors, ignored int) {
	s.errors = errors
	s.ignored = ignored
}

// Errors returns the live error count.
func (s *Bar) Errors() int {
	return s.errors
}

// Ignored returns the ignored error count.
func (s *Bar) Ignored() int {
	return s.ignored
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.errors = 0
	s.ignored = 0
}
