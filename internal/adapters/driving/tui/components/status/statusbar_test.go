package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.Init())
}

func TestStatusBar_Update_IgnoresOtherMessages(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Update_TicksOnlyWhileChecking(t *testing.T) {
	bar := NewBar(nil, nil)
	tick := bar.spinner.Tick()

	_, cmd := bar.Update(tick)
	assert.Nil(t, cmd)

	bar.SetState(StateChecking)
	_, cmd = bar.Update(bar.spinner.Tick())
	assert.NotNil(t, cmd)
}

func TestStatusBar_SetState_StartsSpinner(t *testing.T) {
	bar := NewBar(nil, nil)

	cmd := bar.SetState(StateChecking)
	require.NotNil(t, cmd)
	_, ok := cmd().(spinner.TickMsg)
	assert.True(t, ok)

	assert.Nil(t, bar.SetState(StateChecking), "already spinning")
	assert.Nil(t, bar.SetState(StateReady))
}

func TestStatusBar_View_Checking(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(100)
	bar.SetState(StateChecking)

	assert.Contains(t, bar.View(), "Checking grammar...")
}

func TestStatusBar_View_Counts(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "No issues")

	bar.SetCounts(1, 0)
	assert.Contains(t, bar.View(), "1 issue")

	bar.SetCounts(3, 2)
	view := bar.View()
	assert.Contains(t, view, "3 issues")
	assert.Contains(t, view, "2 ignored")
	assert.Contains(t, view, "reset ignored")
}

func TestStatusBar_View_Document(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetDocument("notes.md", false)
	assert.Contains(t, bar.View(), "notes.md")
	assert.NotContains(t, bar.View(), "notes.md*")

	bar.SetDocument("notes.md", true)
	assert.Contains(t, bar.View(), "notes.md*")
}

func TestStatusBar_View_Error(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetState(StateError)
	assert.Contains(t, bar.View(), "Error")

	bar.SetMessage("provider unavailable")
	assert.Contains(t, bar.View(), "Error: provider unavailable")
}

func TestStatusBar_View_FocusedHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	bar.SetState(StateFocused)
	view := bar.View()

	assert.Contains(t, view, "alt+i: ignore")
	assert.Contains(t, view, "esc: dismiss")
	assert.NotContains(t, view, "ctrl+s: save")
}

func TestStatusBar_View_Message(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetCounts(2, 0)

	bar.SetMessage("Saved")
	assert.Contains(t, bar.View(), "Saved")
	assert.NotContains(t, bar.View(), "2 issues")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("x")
	bar.SetCounts(4, 1)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.Errors())
	assert.Zero(t, bar.Ignored())
}
