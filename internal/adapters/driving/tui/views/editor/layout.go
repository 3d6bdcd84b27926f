package editor

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// cell is one rendered rune and the document position it stands for.
type cell struct {
	r     rune
	width int
	pos   domain.Position
	marks []richtext.Mark
}

// line is one screen row of a textblock after soft wrapping.
type line struct {
	block  int
	kind   richtext.NodeType
	prefix string
	indent int
	cells  []cell

	// start is the position of the first cell, end the position just past
	// the last one. Wrapped rows of one block share their boundaries.
	start domain.Position
	end   domain.Position
}

func (l line) width() int {
	w := l.indent
	for _, c := range l.cells {
		w += c.width
	}
	return w
}

// layout wraps textblocks into rows at most width columns wide. Hard breaks
// and code block newlines start a new row; the break itself gets no cell.
func layout(blocks []richtext.Textblock, width int) []line {
	var lines []line
	for bi, b := range blocks {
		indent := runewidth.StringWidth(b.Prefix)
		avail := max(width-indent, 1)
		cont := strings.Repeat(" ", indent)

		cur := line{block: bi, kind: b.Type, prefix: b.Prefix, indent: indent, start: b.Start}
		col := 0
		for i, r := range []rune(b.Text) {
			pos := b.Start + domain.Position(i)
			if r == '\n' {
				cur.end = pos
				lines = append(lines, cur)
				cur = line{block: bi, kind: b.Type, prefix: cont, indent: indent, start: pos + 1}
				col = 0
				continue
			}

			w := runewidth.RuneWidth(r)
			if unicode.IsControl(r) {
				r, w = ' ', 1
			}
			if col+w > avail && len(cur.cells) > 0 {
				cur.end = pos
				lines = append(lines, cur)
				cur = line{block: bi, kind: b.Type, prefix: cont, indent: indent, start: pos}
				col = 0
			}
			var marks []richtext.Mark
			if i < len(b.Marks) {
				marks = b.Marks[i]
			}
			cur.cells = append(cur.cells, cell{r: r, width: w, pos: pos, marks: marks})
			col += w
		}
		cur.end = b.End
		lines = append(lines, cur)
	}
	return lines
}

// locate returns the row and column where a caret at pos is drawn.
// A position on a wrap boundary belongs to the later row.
func locate(lines []line, pos domain.Position) (row, col int, ok bool) {
	for i, l := range lines {
		if pos >= l.start && pos < l.end {
			col = l.indent
			for _, c := range l.cells {
				if c.pos >= pos {
					break
				}
				col += c.width
			}
			return i, col, true
		}
	}
	for i, l := range lines {
		if pos == l.end {
			return i, l.width(), true
		}
	}
	return 0, 0, false
}

// hit returns the position of the cell drawn at row, col. exact is false
// when the column lies outside the row's text, in which case pos is the
// nearest caret position on that row.
func hit(lines []line, row, col int) (pos domain.Position, exact bool) {
	if len(lines) == 0 {
		return 0, false
	}
	if row < 0 {
		return lines[0].start, false
	}
	if row >= len(lines) {
		return lines[len(lines)-1].end, false
	}
	l := lines[row]
	x := l.indent
	if col < x {
		return l.start, false
	}
	for _, c := range l.cells {
		if col >= x && col < x+c.width {
			return c.pos, true
		}
		x += c.width
	}
	return l.end, false
}
