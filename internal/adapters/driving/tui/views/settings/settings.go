// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// ErrNoSettingsService is reported when the view has no service to read from.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists every config key with its effective value and edits one at
// a time. Changes are written immediately and apply on the next launch.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	rows     []messages.SettingRow
	selected int
	editing  bool
	input    *input.Field
	saved    string
	err      error

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input.NewField(s),
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		keys := v.settingsService.Keys()
		rows := make([]messages.SettingRow, 0, len(keys))
		for _, k := range keys {
			value, err := v.settingsService.Value(k)
			if err != nil {
				return messages.SettingsLoaded{Err: err}
			}
			rows = append(rows, messages.SettingRow{Key: k, Value: value})
		}
		return messages.SettingsLoaded{Rows: rows}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.rows = msg.Rows
			v.selected = min(v.selected, max(len(v.rows)-1, 0))
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewEditor}
		}
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected < len(v.rows) {
			v.editing = true
			v.saved = ""
			row := v.rows[v.selected]
			return v, v.input.Edit(row.Key, row.Value)
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.saveSetting(v.rows[v.selected].Key, strings.TrimSpace(v.input.Value()))
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.rows == nil {
		if v.err == nil {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		return b.String()
	}

	keyWidth := 0
	for _, r := range v.rows {
		keyWidth = max(keyWidth, len(r.Key))
	}

	for i, r := range v.rows {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}
		label := fmt.Sprintf("%s%-*s  ", indicator, keyWidth, r.Key)
		value := r.Value
		if value == "" {
			value = v.styles.Muted.Render("(not set)")
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(label))
		} else {
			b.WriteString(v.styles.Normal.Render(label))
		}
		b.WriteString(value)
		if r.Key == v.saved {
			b.WriteString(v.styles.Success.Render("  saved"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
		return b.String()
	}
	b.WriteString(v.styles.Muted.Render("Changes apply the next time proofmark starts."))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] select  [enter] edit  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
