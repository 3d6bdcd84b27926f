package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// "Their is a cat." occupies positions 1-15, "Second line" 18-28.
const sample = "Their is a cat.\nSecond line"

var theirError = domain.MappedRange{
	From: 1,
	To:   6,
	Span: domain.ErrorSpan{
		Offset:       0,
		Length:       5,
		Message:      "Did you mean there?",
		Replacements: []string{"There"},
	},
}

func newTestView(t *testing.T) (*View, *richtext.Editor, *fakeSession) {
	t.Helper()
	ed := richtext.FromPlainText(sample)
	session := &fakeSession{decorations: []domain.MappedRange{theirError}}
	v := NewView(nil, nil, ed, session)
	v.SetDimensions(40, 10)
	return v, ed, session
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func alt(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func plain(ed *richtext.Editor) string {
	return ed.Current().PlainText()
}

func TestView_TypingInsertsAtCaret(t *testing.T) {
	v, ed, _ := newTestView(t)

	v.Update(runes("X"))
	v.Update(key(tea.KeySpace))

	assert.Equal(t, "X Their is a cat.\nSecond line", plain(ed))
	assert.Equal(t, domain.Position(3), v.Cursor())
}

func TestView_AltRunesAreNotInserted(t *testing.T) {
	v, ed, _ := newTestView(t)

	v.Update(alt("z"))

	assert.Equal(t, sample, plain(ed))
}

func TestView_EnterSplitsAndBackspaceJoins(t *testing.T) {
	v, ed, _ := newTestView(t)

	v.Update(key(tea.KeyEnd))
	v.Update(key(tea.KeyEnter))
	assert.Equal(t, "Their is a cat.\n\nSecond line", plain(ed))

	v.Update(key(tea.KeyBackspace))
	assert.Equal(t, sample, plain(ed))
	assert.Equal(t, domain.Position(16), v.Cursor())
}

func TestView_BackspaceAtDocumentStartIsDropped(t *testing.T) {
	v, ed, _ := newTestView(t)

	v.Update(key(tea.KeyBackspace))

	assert.Equal(t, sample, plain(ed))
}

func TestView_DeleteForward(t *testing.T) {
	v, ed, _ := newTestView(t)

	v.Update(key(tea.KeyDelete))
	assert.True(t, strings.HasPrefix(plain(ed), "heir"))

	v.Update(key(tea.KeyEnd))
	v.Update(key(tea.KeyDelete))
	assert.Equal(t, "heir is a cat.\nSecond line", plain(ed), "delete at block end is dropped")
}

func TestView_HorizontalMovementCrossesBlocks(t *testing.T) {
	v, _, _ := newTestView(t)

	v.Update(key(tea.KeyLeft))
	assert.Equal(t, domain.Position(1), v.Cursor())

	v.Update(key(tea.KeyEnd))
	assert.Equal(t, domain.Position(16), v.Cursor())

	v.Update(key(tea.KeyRight))
	assert.Equal(t, domain.Position(18), v.Cursor())

	v.Update(key(tea.KeyLeft))
	assert.Equal(t, domain.Position(16), v.Cursor())
}

func TestView_VerticalMovementKeepsColumn(t *testing.T) {
	v, _, _ := newTestView(t)

	v.Update(key(tea.KeyEnd))
	v.Update(key(tea.KeyDown))
	assert.Equal(t, domain.Position(29), v.Cursor(), "clamped to the shorter row")

	v.Update(key(tea.KeyUp))
	assert.Equal(t, domain.Position(16), v.Cursor(), "goal column survives")
}

func TestView_HoverEntersAndLeavesError(t *testing.T) {
	v, _, session := newTestView(t)

	v.Update(motion(2, 0))
	assert.Equal(t, []string{"enter"}, session.calls)
	assert.Equal(t, domain.ScreenPosition{X: 0, Y: 0}, session.screens[0])

	v.Update(motion(3, 0))
	assert.Equal(t, []string{"enter"}, session.calls, "same error")

	v.Update(motion(12, 0))
	assert.Equal(t, []string{"enter", "leave"}, session.calls)
}

func TestView_ClickFocusesOrDismisses(t *testing.T) {
	v, _, session := newTestView(t)

	v.Update(press(1, 0))
	assert.Equal(t, "click", session.last())
	assert.Equal(t, domain.Position(2), v.Cursor())

	v.Update(press(3, 1))
	assert.Equal(t, "outside", session.last())
	assert.Equal(t, domain.Position(21), v.Cursor())
}

func TestView_ApplySuggestion(t *testing.T) {
	v, _, session := newTestView(t)

	_, cmd := v.Update(alt("1"))
	assert.Nil(t, cmd, "nothing focused")

	v.Update(press(1, 0))
	_, cmd = v.Update(alt("1"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.SuggestionApplied{Candidate: "There"}, cmd())
	assert.Equal(t, []int{0}, session.replacedAt)

	_, cmd = v.Update(alt("2"))
	assert.Nil(t, cmd, "only one suggestion")
}

func TestView_Ignore(t *testing.T) {
	v, _, session := newTestView(t)

	_, cmd := v.Update(alt("i"))
	assert.Nil(t, cmd)

	v.Update(press(1, 0))
	_, cmd = v.Update(alt("i"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ErrorIgnored)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, theirError, msg.Range)
	assert.Equal(t, 1, session.ignored)
}

func TestView_CommandKeys(t *testing.T) {
	v, _, session := newTestView(t)

	v.Update(key(tea.KeyCtrlR))
	assert.Equal(t, "check", session.last())

	_, cmd := v.Update(key(tea.KeyCtrlX))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.IgnoredReset{}, cmd())
	assert.Equal(t, "reset", session.last())

	v.Update(key(tea.KeyCtrlE))
	assert.Equal(t, "click", session.last(), "caret sits on the error")

	v.Update(key(tea.KeyEsc))
	assert.Equal(t, "dismiss", session.last())
}

func TestView_JumpBetweenErrors(t *testing.T) {
	v, _, session := newTestView(t)
	second := domain.MappedRange{From: 18, To: 24, Span: domain.ErrorSpan{Message: "x"}}
	session.decorations = append(session.decorations, second)

	v.Update(key(tea.KeyCtrlN))
	assert.Equal(t, domain.Position(18), v.Cursor())
	assert.Equal(t, "click", session.last())
	assert.Equal(t, domain.ScreenPosition{X: 0, Y: 1}, session.screens[0])

	v.Update(key(tea.KeyCtrlN))
	assert.Equal(t, domain.Position(18), v.Cursor(), "no later error")

	v.Update(key(tea.KeyCtrlP))
	assert.Equal(t, domain.Position(1), v.Cursor())
}

func TestView_RendersText(t *testing.T) {
	v, _, _ := newTestView(t)

	out := v.View()

	rows := strings.Split(out, "\n")
	assert.Len(t, rows, 10)
	assert.Contains(t, rows[0], "Their is a cat.")
	assert.Contains(t, rows[1], "Second line")
}

func TestView_RendersTooltipForFocusedError(t *testing.T) {
	v, _, session := newTestView(t)
	v.Update(press(1, 0))

	out := v.View()

	assert.Contains(t, out, "Did you mean there?")
	assert.Contains(t, out, "There")
	assert.Len(t, strings.Split(out, "\n"), 10)
	// The error is on the first row, so the popup opens below it.
	assert.Equal(t, tipBox{x: 1, y: 1, w: 38, h: 8, visible: true}, v.tip)
	assert.Contains(t, strings.Split(out, "\n")[0], "Their is a cat.")

	session.focus.State = domain.FocusHovering
	assert.NotContains(t, v.View(), "Did you mean there?")
}

func TestView_TooltipPointerTracking(t *testing.T) {
	v, _, session := newTestView(t)
	v.Update(press(1, 0))
	v.View()
	session.calls = nil

	v.Update(motion(10, 3))
	assert.Equal(t, []string{"tooltip-enter"}, session.calls)

	v.Update(motion(11, 3))
	assert.Equal(t, []string{"tooltip-enter"}, session.calls)

	v.Update(motion(30, 9))
	assert.Equal(t, []string{"tooltip-enter", "tooltip-leave"}, session.calls)
}

func TestView_ClickSuggestionInTooltip(t *testing.T) {
	v, _, session := newTestView(t)
	v.Update(press(1, 0))
	v.View()

	// Popup at (1,1): border, title, message, blank, then the suggestion.
	_, cmd := v.Update(press(5, 5))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.SuggestionApplied{Candidate: "There"}, cmd())
	assert.Equal(t, []int{0}, session.replacedAt)
}

func TestView_ScrollKeepsCaretVisible(t *testing.T) {
	ed := richtext.FromPlainText(strings.Repeat("line\n", 30) + "last")
	v := NewView(nil, nil, ed, &fakeSession{})
	v.SetDimensions(40, 5)

	for range 30 {
		v.Update(key(tea.KeyDown))
	}

	assert.Equal(t, 26, v.Scroll())
	rows := strings.Split(v.View(), "\n")
	assert.Contains(t, rows[4], "last")

	v.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 23, v.Scroll())
}
