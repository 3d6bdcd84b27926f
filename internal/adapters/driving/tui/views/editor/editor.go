// Package editor provides the decorated editor view for the TUI.
package editor

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/components/tooltip"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
	"github.com/custodia-labs/proofmark/internal/logger"
)

var editorLog = logger.For("editor")

// View is the editor view. It owns the caret and scroll state and turns
// keys and pointer motion into editor edits and session interactions.
// It must only be used from the Bubbletea goroutine, which is also the
// session thread.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	tooltip *tooltip.Tooltip
	editor  *richtext.Editor
	session driving.EditorSession
	ctx     context.Context

	width  int
	height int
	scroll int

	// goalCol keeps the column across consecutive vertical moves; -1 when unset.
	goalCol int

	// hovered is the error under the pointer.
	hovered *domain.MappedRange

	// inTooltip is set while the pointer is inside the popup.
	inTooltip bool

	// tip is where the popup was last drawn.
	tip tipBox

	lines     []line
	layoutRev uint64
	layoutW   int
	laidOut   bool
}

type tipBox struct {
	x, y, w, h int
	visible    bool
}

func (b tipBox) contains(x, y int) bool {
	return b.visible && x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// NewView creates an editor view over ed, decorated by session.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	ed *richtext.Editor,
	session driving.EditorSession,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		tooltip: tooltip.New(s, km),
		editor:  ed,
		session: session,
		ctx:     context.Background(),
		width:   80,
		height:  23,
		goalCol: -1,
	}
}

// WithContext sets the context used for ledger writes.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDimensions sets the size of the text area.
func (v *View) SetDimensions(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.tooltip.SetMaxWidth(min(tooltip.DefaultMaxWidth, v.width-2*tooltip.Margin))
	v.ensureCaretVisible()
}

// Cursor returns the caret position.
func (v *View) Cursor() domain.Position {
	return v.editor.Selection().Head
}

// Scroll returns the index of the first visible row.
func (v *View) Scroll() int {
	return v.scroll
}

// Update handles keys and pointer events.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil
	case tea.KeyMsg:
		cmd := v.handleKey(msg)
		v.ensureCaretVisible()
		return v, cmd
	case tea.MouseMsg:
		return v, v.handleMouse(msg)
	}
	return v, nil
}

//nolint:gocyclo // flat key dispatch
func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	vertical := false
	defer func() {
		if !vertical {
			v.goalCol = -1
		}
	}()

	if i, ok := v.keymap.ApplyIndex(k); ok {
		return v.apply(i)
	}

	switch {
	case keymap.Matches(k, v.keymap.Ignore):
		return v.ignore()
	case keymap.Matches(k, v.keymap.Dismiss):
		v.session.Dismiss()
		return nil
	case keymap.Matches(k, v.keymap.ResetIgnored):
		return v.resetIgnored()
	case keymap.Matches(k, v.keymap.CheckNow):
		v.session.CheckNow()
		return nil
	case keymap.Matches(k, v.keymap.FocusError):
		v.focusAtCaret()
		return nil
	case keymap.Matches(k, v.keymap.NextError):
		v.jumpToError(1)
		return nil
	case keymap.Matches(k, v.keymap.PrevError):
		v.jumpToError(-1)
		return nil
	case keymap.Matches(k, v.keymap.Up):
		vertical = true
		v.moveVertical(-1)
		return nil
	case keymap.Matches(k, v.keymap.Down):
		vertical = true
		v.moveVertical(1)
		return nil
	case keymap.Matches(k, v.keymap.Left):
		v.moveHorizontal(-1)
		return nil
	case keymap.Matches(k, v.keymap.Right):
		v.moveHorizontal(1)
		return nil
	case keymap.Matches(k, v.keymap.Home):
		v.moveToRowEdge(false)
		return nil
	case keymap.Matches(k, v.keymap.End):
		v.moveToRowEdge(true)
		return nil
	}

	v.edit(msg)
	return nil
}

// edit applies a text editing key. Edits that run into a document edge are
// dropped.
func (v *View) edit(msg tea.KeyMsg) {
	var err error
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return
		}
		err = v.editor.InsertText(string(msg.Runes))
	case tea.KeySpace:
		err = v.editor.InsertText(" ")
	case tea.KeyTab:
		err = v.editor.InsertText("\t")
	case tea.KeyEnter:
		if msg.Alt {
			err = v.editor.InsertText("\n")
			break
		}
		if sel := v.editor.Selection(); sel.Anchor != sel.Head {
			if err = v.editor.InsertText(""); err != nil {
				break
			}
		}
		_, err = v.editor.SplitBlock(v.Cursor())
	case tea.KeyBackspace:
		err = v.editor.DeleteBackward()
	case tea.KeyDelete:
		err = v.deleteForward()
	default:
		return
	}
	if err != nil && !errors.Is(err, richtext.ErrNoBlockToJoin) {
		editorLog.Debug("edit dropped: %v", err)
	}
}

func (v *View) deleteForward() error {
	sel := v.editor.Selection()
	if sel.Anchor != sel.Head {
		return v.editor.InsertText("")
	}
	pos := sel.Head
	block, ok := v.editor.Current().TextblockAt(pos)
	if !ok || pos >= block.End {
		return nil
	}
	v.editor.SetSelection(domain.Selection{Anchor: pos, Head: pos + 1})
	return v.editor.InsertText("")
}

func (v *View) apply(i int) tea.Cmd {
	f, ok := v.session.Focus()
	if !ok {
		return nil
	}
	candidates := domain.CapReplacements(f.Range.Span.Replacements)
	if i >= len(candidates) {
		return nil
	}
	err := v.session.ReplaceAt(i)
	candidate := candidates[i]
	return func() tea.Msg {
		return messages.SuggestionApplied{Candidate: candidate, Err: err}
	}
}

func (v *View) ignore() tea.Cmd {
	f, ok := v.session.Focus()
	if !ok {
		return nil
	}
	err := v.session.Ignore(v.ctx)
	return func() tea.Msg {
		return messages.ErrorIgnored{Range: f.Range, Err: err}
	}
}

func (v *View) resetIgnored() tea.Cmd {
	err := v.session.ResetIgnored(v.ctx)
	return func() tea.Msg {
		return messages.IgnoredReset{Err: err}
	}
}

// focusAtCaret opens the popup for the error under the caret, or the one
// ending at it.
func (v *View) focusAtCaret() {
	pos := v.Cursor()
	r, ok := v.session.DecorationAt(pos)
	if !ok && pos > 0 {
		r, ok = v.session.DecorationAt(pos - 1)
	}
	if !ok {
		v.session.ClickOutside()
		return
	}
	v.session.Click(r, v.screenOf(r.From))
}

// jumpToError moves the caret to the next (dir > 0) or previous error and
// focuses it.
func (v *View) jumpToError(dir int) {
	ranges := v.session.Decorations()
	if len(ranges) == 0 {
		return
	}
	pos := v.Cursor()
	var target *domain.MappedRange
	for i := range ranges {
		r := ranges[i]
		switch {
		case dir > 0 && r.From > pos && (target == nil || r.From < target.From):
			target = &r
		case dir < 0 && r.From < pos && (target == nil || r.From > target.From):
			target = &r
		}
	}
	if target == nil {
		return
	}
	v.editor.SetSelection(domain.Selection{Anchor: target.From, Head: target.From})
	v.ensureCaretVisible()
	v.session.Click(*target, v.screenOf(target.From))
}

func (v *View) moveHorizontal(dir int) {
	pos := v.Cursor()
	blocks := v.editor.Current().Textblocks()
	for i, b := range blocks {
		if !b.Contains(pos) {
			continue
		}
		switch {
		case dir < 0 && pos > b.Start:
			pos--
		case dir < 0 && i > 0:
			pos = blocks[i-1].End
		case dir > 0 && pos < b.End:
			pos++
		case dir > 0 && i < len(blocks)-1:
			pos = blocks[i+1].Start
		}
		break
	}
	v.editor.SetSelection(domain.Selection{Anchor: pos, Head: pos})
}

func (v *View) moveVertical(dir int) {
	lines := v.layout()
	row, col, ok := locate(lines, v.Cursor())
	if !ok {
		return
	}
	if v.goalCol < 0 {
		v.goalCol = col
	}
	target := row + dir
	if target < 0 || target >= len(lines) {
		return
	}
	pos, _ := hit(lines, target, v.goalCol)
	v.editor.SetSelection(domain.Selection{Anchor: pos, Head: pos})
}

func (v *View) moveToRowEdge(end bool) {
	lines := v.layout()
	row, _, ok := locate(lines, v.Cursor())
	if !ok {
		return
	}
	pos := lines[row].start
	if end {
		pos = lines[row].end
	}
	v.editor.SetSelection(domain.Selection{Anchor: pos, Head: pos})
}

func (v *View) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		v.scroll = max(v.scroll-3, 0)
		return nil
	case tea.MouseButtonWheelDown:
		v.scroll = max(min(v.scroll+3, len(v.layout())-v.height), 0)
		return nil
	}

	if v.tip.contains(msg.X, msg.Y) {
		if v.hovered != nil {
			v.hovered = nil
			v.session.PointerLeave()
		}
		if !v.inTooltip {
			v.inTooltip = true
			v.session.TooltipEnter()
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return v.clickTooltip(msg.X-v.tip.x, msg.Y-v.tip.y)
		}
		return nil
	}
	if v.inTooltip {
		v.inTooltip = false
		v.session.TooltipLeave()
	}

	if msg.Y < 0 || msg.Y >= v.height {
		return nil
	}
	pos, exact := hit(v.layout(), v.scroll+msg.Y, msg.X)
	var under *domain.MappedRange
	if exact {
		if r, ok := v.session.DecorationAt(pos); ok {
			under = &r
		}
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		v.hover(under)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		v.goalCol = -1
		v.editor.SetSelection(domain.Selection{Anchor: pos, Head: pos})
		if under != nil {
			v.session.Click(*under, v.screenOf(under.From))
		} else {
			v.session.ClickOutside()
		}
	}
	return nil
}

func (v *View) hover(under *domain.MappedRange) {
	same := under != nil && v.hovered != nil &&
		under.From == v.hovered.From && under.To == v.hovered.To
	if same {
		return
	}
	if v.hovered != nil {
		v.hovered = nil
		v.session.PointerLeave()
	}
	if under != nil {
		v.hovered = under
		v.session.PointerEnter(*under, v.screenOf(under.From))
	}
}

func (v *View) clickTooltip(col, row int) tea.Cmd {
	f, ok := v.session.Focus()
	if !ok {
		return nil
	}
	action, index := v.tooltip.ActionAt(f, col, row)
	switch action {
	case tooltip.ActionApply:
		return v.apply(index)
	case tooltip.ActionIgnore:
		return v.ignore()
	case tooltip.ActionDismiss:
		v.session.Dismiss()
	case tooltip.ActionNone:
	}
	return nil
}

// screenOf returns the view cell where pos is drawn. Positions scrolled out
// of view are clamped to the nearest edge row.
func (v *View) screenOf(pos domain.Position) domain.ScreenPosition {
	row, col, ok := locate(v.layout(), pos)
	if !ok {
		return domain.ScreenPosition{}
	}
	y := min(max(row-v.scroll, 0), v.height-1)
	return domain.ScreenPosition{X: col, Y: y}
}

func (v *View) ensureCaretVisible() {
	row, _, ok := locate(v.layout(), v.Cursor())
	if !ok {
		return
	}
	if row < v.scroll {
		v.scroll = row
	}
	if row >= v.scroll+v.height {
		v.scroll = row - v.height + 1
	}
}

// layout returns the wrapped rows of the current document, recomputed when
// the document or the width changed.
func (v *View) layout() []line {
	doc := v.editor.Current()
	if v.laidOut && v.layoutRev == doc.Revision() && v.layoutW == v.width {
		return v.lines
	}
	v.lines = layout(doc.Textblocks(), v.width)
	v.layoutRev = doc.Revision()
	v.layoutW = v.width
	v.laidOut = true
	return v.lines
}
