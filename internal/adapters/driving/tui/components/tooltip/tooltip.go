// Package tooltip renders the suggestion popup for a focused error and
// places it inside the viewport.
package tooltip

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// DefaultMaxWidth is the widest the popup grows, border included.
const DefaultMaxWidth = 52

// Margin is the number of columns kept free at the left and right edges.
const Margin = 1

// Tooltip renders focus state as a bordered box.
type Tooltip struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	maxWidth int
}

// New creates a tooltip renderer.
func New(s *styles.Styles, km *keymap.KeyMap) *Tooltip {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Tooltip{styles: s, keymap: km, maxWidth: DefaultMaxWidth}
}

// SetMaxWidth limits the popup width, e.g. to the terminal width.
func (t *Tooltip) SetMaxWidth(width int) {
	t.maxWidth = max(width, 16)
}

// Visible reports whether focus has a popup at all. The hover delay is
// still running while hovering, so nothing is shown yet.
func Visible(f domain.Focus) bool {
	return f.State == domain.FocusFocused || f.State.IsSettling()
}

// Action is what a click inside the popup does.
type Action int

const (
	// ActionNone means the click hit no control.
	ActionNone Action = iota
	// ActionApply applies the suggestion at the returned index.
	ActionApply
	// ActionIgnore suppresses the error.
	ActionIgnore
	// ActionDismiss closes the popup.
	ActionDismiss

	// actionHints marks the row holding the ignore and dismiss hints.
	actionHints
)

// hintGap separates the hints on the last row.
const hintGap = "  "

type row struct {
	text   string
	action Action
	index  int
}

// Render returns the popup for f, or "" when nothing should be shown.
func (t *Tooltip) Render(f domain.Focus) string {
	rows := t.rows(f)
	if rows == nil {
		return ""
	}
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.text
	}
	body := lipgloss.NewStyle().MaxWidth(t.inner()).Render(strings.Join(texts, "\n"))
	return t.styles.Tooltip.Render(body)
}

// ActionAt maps a click at col, row (relative to the popup's top-left
// corner, border included) to an action.
func (t *Tooltip) ActionAt(f domain.Focus, col, row int) (Action, int) {
	rows := t.rows(f)
	// Top border, then one row per content line.
	i := row - 1
	if i < 0 || i >= len(rows) {
		return ActionNone, 0
	}
	r := rows[i]
	if r.action != actionHints {
		return r.action, r.index
	}

	// The hint row holds "ignore" then "dismiss". Left border and padding
	// take two columns.
	x := col - 2
	ignore, dismiss := t.hintWidths()
	switch {
	case x >= 0 && x < ignore:
		return ActionIgnore, 0
	case x >= ignore+len(hintGap) && x < ignore+len(hintGap)+dismiss:
		return ActionDismiss, 0
	}
	return ActionNone, 0
}

func (t *Tooltip) inner() int {
	// Border and horizontal padding take four columns.
	return t.maxWidth - 4
}

func (t *Tooltip) rows(f domain.Focus) []row {
	if !Visible(f) {
		return nil
	}
	switch f.State {
	case domain.FocusReplacing:
		return []row{{text: t.styles.Success.Render(fmt.Sprintf("✓ Replaced with “%s”", f.Applied))}}
	case domain.FocusIgnoring:
		return []row{{text: t.styles.Muted.Render("Error ignored")}}
	}

	span := f.Range.Span
	title := "Issue"
	if issue := span.IssueType(); issue != "" {
		title = strings.ToUpper(issue[:1]) + issue[1:]
	}
	rows := []row{{text: t.styles.Subtitle.Render(title)}}

	wrapped := lipgloss.NewStyle().Width(t.inner()).Render(span.Message)
	for _, line := range strings.Split(wrapped, "\n") {
		rows = append(rows, row{text: line})
	}

	if len(span.Replacements) > 0 {
		rows = append(rows, row{})
		for i, candidate := range domain.CapReplacements(span.Replacements) {
			h := t.keymap.Apply[i].Help()
			rows = append(rows, row{
				text:   t.styles.Muted.Render(h.Key+" ") + t.styles.Suggestion.Render(candidate),
				action: ActionApply,
				index:  i,
			})
		}
	}

	ignore, dismiss := t.keymap.Ignore.Help(), t.keymap.Dismiss.Help()
	hints := ignore.Key + " " + ignore.Desc + hintGap + dismiss.Key + " " + dismiss.Desc
	return append(rows, row{}, row{text: t.styles.Help.Render(hints), action: actionHints})
}

func (t *Tooltip) hintWidths() (int, int) {
	ignore, dismiss := t.keymap.Ignore.Help(), t.keymap.Dismiss.Help()
	return lipgloss.Width(ignore.Key + " " + ignore.Desc), lipgloss.Width(dismiss.Key + " " + dismiss.Desc)
}

// Place returns the top-left cell of a width x height popup for an error
// whose first cell is at anchor, inside a viewWidth x viewHeight area.
// The popup sits on the rows above the error. It moves below the error
// when it would leave the top edge, and back above when below would leave
// the bottom edge. Columns are clamped to keep Margin free on both sides.
func Place(anchor domain.ScreenPosition, width, height, viewWidth, viewHeight int) domain.ScreenPosition {
	x := anchor.X
	y := anchor.Y - height

	if x+width > viewWidth-Margin {
		x = viewWidth - width - Margin
	}
	if x < Margin {
		x = Margin
	}
	if y < 0 {
		y = anchor.Y + 1
	}
	if y+height > viewHeight {
		y = anchor.Y - height
	}
	if y < 0 {
		y = 0
	}
	return domain.ScreenPosition{X: x, Y: y}
}
