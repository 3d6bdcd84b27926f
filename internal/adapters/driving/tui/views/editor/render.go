package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/components/tooltip"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// look is the set of attributes a screen cell is drawn with.
type look struct {
	prefix    bool
	heading   bool
	code      bool
	bold      bool
	italic    bool
	strike    bool
	decorated bool
	focused   bool
	cursor    bool
}

// glyph is one drawn screen cell.
type glyph struct {
	text  string
	width int
	look  look
}

// View renders the visible rows with the popup drawn over them.
func (v *View) View() string {
	lines := v.layout()
	decorations := v.session.Decorations()
	focus, hasFocus := v.session.Focus()
	cursor := v.Cursor()

	var active *domain.MappedRange
	if hasFocus && tooltip.Visible(focus) {
		active = &focus.Range
	}

	rows := make([][]glyph, v.height)
	for y := range rows {
		i := v.scroll + y
		if i >= len(lines) {
			break
		}
		rows[y] = v.glyphs(lines[i], decorations, active, cursor)
	}

	v.tip = tipBox{}
	var tipLines []string
	if hasFocus {
		if box := v.tooltip.Render(focus); box != "" {
			w, h := lipgloss.Width(box), lipgloss.Height(box)
			anchor := focus.Screen
			if row, col, ok := locate(lines, focus.Range.From); ok && row >= v.scroll && row < v.scroll+v.height {
				anchor = domain.ScreenPosition{X: col, Y: row - v.scroll}
			}
			at := tooltip.Place(anchor, w, h, v.width, v.height)
			v.tip = tipBox{x: at.X, y: at.Y, w: w, h: h, visible: true}
			tipLines = strings.Split(box, "\n")
		}
	}

	out := make([]string, v.height)
	for y, row := range rows {
		if !v.tip.visible || y < v.tip.y || y >= v.tip.y+v.tip.h {
			out[y] = v.paint(row, 0, v.width, false)
			continue
		}
		tl := tipLines[y-v.tip.y]
		if pad := v.tip.w - lipgloss.Width(tl); pad > 0 {
			tl += strings.Repeat(" ", pad)
		}
		out[y] = v.paint(row, 0, v.tip.x, true) + tl + v.paint(row, v.tip.x+v.tip.w, v.width, false)
	}
	return strings.Join(out, "\n")
}

func (v *View) glyphs(l line, decorations []domain.MappedRange, active *domain.MappedRange, cursor domain.Position) []glyph {
	out := make([]glyph, 0, len(l.cells)+len([]rune(l.prefix))+1)
	for _, r := range l.prefix {
		out = append(out, glyph{text: string(r), width: 1, look: look{prefix: true}})
	}

	base := look{heading: l.kind == richtext.NodeHeading, code: l.kind == richtext.NodeCodeBlock}
	for _, c := range l.cells {
		lk := base
		for _, m := range c.marks {
			switch m.Type {
			case "bold", "strong":
				lk.bold = true
			case "italic", "em":
				lk.italic = true
			case "code":
				lk.code = true
			case "strike":
				lk.strike = true
			}
		}
		for _, r := range decorations {
			if r.Contains(c.pos) {
				lk.decorated = true
				break
			}
		}
		lk.focused = active != nil && active.Contains(c.pos)
		lk.cursor = c.pos == cursor
		out = append(out, glyph{text: string(c.r), width: c.width, look: lk})
	}

	// A caret after the last character gets a cell of its own, unless the
	// next row starts at the same position.
	if cursor == l.end {
		if row, _, ok := locate(v.lines, cursor); ok && v.lines[row].start == l.start {
			out = append(out, glyph{text: " ", width: 1, look: look{cursor: true}})
		}
	}
	return out
}

// paint draws the glyphs covering columns [from, to). Wide glyphs cut by
// an edge become spaces. pad fills the range when the row is shorter.
func (v *View) paint(row []glyph, from, to int, pad bool) string {
	var b strings.Builder
	var run strings.Builder
	var runLook look
	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(v.style(runLook).Render(run.String()))
		run.Reset()
	}
	emit := func(text string, lk look) {
		if lk != runLook {
			flush()
			runLook = lk
		}
		run.WriteString(text)
	}

	col := 0
	for _, g := range row {
		end := col + g.width
		switch {
		case end <= from || col >= to:
		case col >= from && end <= to:
			emit(g.text, g.look)
		default:
			visible := min(end, to) - max(col, from)
			emit(strings.Repeat(" ", visible), look{})
		}
		col = end
		if col >= to {
			break
		}
	}
	flush()

	if pad && col < to {
		b.WriteString(strings.Repeat(" ", to-max(col, from)))
	}
	return b.String()
}

func (v *View) style(lk look) lipgloss.Style {
	st := lipgloss.NewStyle()
	if lk == (look{}) {
		return st
	}
	if lk.cursor {
		st = st.Inherit(v.styles.Cursor)
	}
	switch {
	case lk.focused:
		st = st.Inherit(v.styles.DecoratedFocused)
	case lk.decorated:
		st = st.Inherit(v.styles.Decorated)
	}
	switch {
	case lk.prefix:
		st = st.Inherit(v.styles.Prefix)
	case lk.heading:
		st = st.Inherit(v.styles.Heading)
	case lk.code:
		st = st.Inherit(v.styles.Code)
	}
	if lk.bold {
		st = st.Bold(true)
	}
	if lk.italic {
		st = st.Italic(true)
	}
	if lk.strike {
		st = st.Strikethrough(true)
	}
	return st
}
