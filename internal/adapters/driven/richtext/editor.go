package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// ErrNoBlockToJoin is returned by JoinBackward when the position does not
// start a textblock that follows another textblock.
var ErrNoBlockToJoin = errors.New("richtext: no block to join with")

// Ensure Editor implements the interface.
var _ driven.EditingSurface = (*Editor)(nil)

// Editor is a mutable editing surface over immutable Documents.
// It is not safe for concurrent use.
type Editor struct {
	doc     *Document
	sel     domain.Selection
	subs    []subscription
	nextSub int
}

type subscription struct {
	id int
	fn func(domain.DocumentChange)
}

// New creates an editor holding a single empty paragraph.
func New() *Editor {
	e := &Editor{}
	e.doc = newDocument(Doc(Paragraph()), 0)
	e.sel = e.initialSelection()
	return e
}

// NewFromNode creates an editor holding a copy of root.
func NewFromNode(root *Node) (*Editor, error) {
	checked, err := prepare(root)
	if err != nil {
		return nil, err
	}
	e := &Editor{doc: newDocument(checked, 0)}
	e.sel = e.initialSelection()
	return e, nil
}

// FromJSON creates an editor from a ProseMirror JSON document.
func FromJSON(data []byte) (*Editor, error) {
	root, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return NewFromNode(root)
}

// FromPlainText creates an editor with one paragraph per line of text.
func FromPlainText(text string) *Editor {
	e, _ := NewFromNode(PlainTextDoc(text))
	return e
}

// ParseJSON decodes a ProseMirror JSON document.
func ParseJSON(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: decode document: %w", domain.ErrInvalidInput, err)
	}
	return &root, nil
}

// PlainTextDoc builds a document with one paragraph per line.
func PlainTextDoc(text string) *Node {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	blocks := make([]*Node, len(lines))
	for i, line := range lines {
		if line == "" {
			blocks[i] = Paragraph()
		} else {
			blocks[i] = Paragraph(Text(line))
		}
	}
	return Doc(blocks...)
}

func prepare(root *Node) (*Node, error) {
	if root == nil || root.Type != NodeDoc {
		return nil, fmt.Errorf("%w: root must be a doc node", domain.ErrInvalidInput)
	}
	checked := root.clone()
	if err := normalize(checked, ""); err != nil {
		return nil, err
	}
	if len(checked.Content) == 0 {
		checked.Content = []*Node{Paragraph()}
	}
	return checked, nil
}

func (e *Editor) initialSelection() domain.Selection {
	if blocks := e.doc.Textblocks(); len(blocks) > 0 {
		return domain.Selection{Anchor: blocks[0].Start, Head: blocks[0].Start}
	}
	return domain.Selection{}
}

// Document returns the current document.
func (e *Editor) Document() driven.Document {
	return e.doc
}

// Current returns the current document with its concrete type.
func (e *Editor) Current() *Document {
	return e.doc
}

// Selection returns the current selection.
func (e *Editor) Selection() domain.Selection {
	return e.sel
}

// SetSelection moves the selection, clamping both ends to the document.
func (e *Editor) SetSelection(sel domain.Selection) {
	e.sel = domain.Selection{Anchor: e.clamp(sel.Anchor), Head: e.clamp(sel.Head)}
}

func (e *Editor) clamp(pos domain.Position) domain.Position {
	return min(max(pos, 0), domain.Position(e.doc.Size()))
}

// Subscribe registers fn for every document change.
func (e *Editor) Subscribe(fn func(domain.DocumentChange)) func() {
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range e.subs {
			if sub.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// ReplaceRange replaces [from, to) with text. Both ends must lie inside
// the same textblock. Inserted text takes the marks of the character before
// from. Newlines become hard breaks, except in code blocks.
func (e *Editor) ReplaceRange(from, to domain.Position, text string) (domain.Mapping, error) {
	if from < 0 || to < from || int(to) > e.doc.Size() {
		return domain.Mapping{}, fmt.Errorf("%w: [%d, %d) in document of size %d",
			domain.ErrOutOfRange, from, to, e.doc.Size())
	}
	block, ok := e.doc.TextblockAt(from)
	if !ok || !block.Contains(to) {
		return domain.Mapping{}, fmt.Errorf("%w: [%d, %d)", domain.ErrCrossBlockRange, from, to)
	}
	if from == to && text == "" {
		return domain.NewMapping(), nil
	}

	node := e.doc.nodeAt(block.path)
	units := explode(node)
	lo, hi := int(from-block.Start), int(to-block.Start)

	var marks []Mark
	switch {
	case lo > 0 && !units[lo-1].brk:
		marks = units[lo-1].marks
	case lo < len(units) && !units[lo].brk:
		marks = units[lo].marks
	}

	inserted := make([]unit, 0, len(text))
	for _, r := range text {
		if r == '\n' && node.Type != NodeCodeBlock {
			inserted = append(inserted, unit{brk: true})
			continue
		}
		inserted = append(inserted, unit{r: r, marks: marks})
	}

	updated := make([]unit, 0, len(units)-(hi-lo)+len(inserted))
	updated = append(updated, units[:lo]...)
	updated = append(updated, inserted...)
	updated = append(updated, units[hi:]...)

	replaced := *node
	replaced.Content = implode(updated)

	parent, idx := block.path[:len(block.path)-1], block.path[len(block.path)-1]
	root := withChildren(e.doc.root, parent, func(children []*Node) []*Node {
		children[idx] = &replaced
		return children
	})

	m := domain.NewMapping(domain.StepMap{Start: from, OldSize: int(to - from), NewSize: len(inserted)})
	e.commit(root, m)
	return m, nil
}

// SplitBlock splits the textblock containing pos in two. The cursor moves
// to the start of the second block.
func (e *Editor) SplitBlock(pos domain.Position) (domain.Mapping, error) {
	block, ok := e.doc.TextblockAt(pos)
	if !ok {
		return domain.Mapping{}, fmt.Errorf("%w: %d is not inside a textblock", domain.ErrOutOfRange, pos)
	}

	node := e.doc.nodeAt(block.path)
	units := explode(node)
	at := int(pos - block.Start)

	first, second := *node, *node
	first.Content = implode(units[:at])
	second.Content = implode(units[at:])

	parent, idx := block.path[:len(block.path)-1], block.path[len(block.path)-1]
	root := withChildren(e.doc.root, parent, func(children []*Node) []*Node {
		out := make([]*Node, 0, len(children)+1)
		out = append(out, children[:idx]...)
		out = append(out, &first, &second)
		return append(out, children[idx+1:]...)
	})

	m := domain.NewMapping(domain.StepMap{Start: pos, NewSize: 2})
	e.commit(root, m)
	e.sel = domain.Selection{Anchor: pos + 2, Head: pos + 2}
	return m, nil
}

// JoinBackward merges the textblock starting at pos into the textblock
// directly before it. The cursor moves to the join point.
func (e *Editor) JoinBackward(pos domain.Position) (domain.Mapping, error) {
	block, ok := e.doc.TextblockAt(pos)
	if !ok || block.Start != pos {
		return domain.Mapping{}, ErrNoBlockToJoin
	}
	idx := block.path[len(block.path)-1]
	if idx == 0 {
		return domain.Mapping{}, ErrNoBlockToJoin
	}
	parent := block.path[:len(block.path)-1]
	prevPath := append(append([]int(nil), parent...), idx-1)
	prev := e.doc.nodeAt(prevPath)
	if !prev.Type.IsTextblock() {
		return domain.Mapping{}, ErrNoBlockToJoin
	}

	node := e.doc.nodeAt(block.path)
	merged := *prev
	merged.Content = implode(append(explode(prev), explode(node)...))

	root := withChildren(e.doc.root, parent, func(children []*Node) []*Node {
		out := make([]*Node, 0, len(children)-1)
		out = append(out, children[:idx-1]...)
		out = append(out, &merged)
		return append(out, children[idx+1:]...)
	})

	m := domain.NewMapping(domain.StepMap{Start: pos - 2, OldSize: 2})
	e.commit(root, m)
	e.sel = domain.Selection{Anchor: pos - 2, Head: pos - 2}
	return m, nil
}

// InsertText replaces the selection with text and places the cursor after it.
func (e *Editor) InsertText(text string) error {
	from, to := e.sel.From(), e.sel.To()
	m, err := e.ReplaceRange(from, to, text)
	if err != nil {
		return err
	}
	end := m.Map(to, domain.AssocRight)
	e.sel = domain.Selection{Anchor: end, Head: end}
	return nil
}

// DeleteBackward deletes the selection, or the character before the cursor.
// At the start of a textblock it joins with the previous block.
func (e *Editor) DeleteBackward() error {
	from, to := e.sel.From(), e.sel.To()
	if from != to {
		return e.InsertText("")
	}
	block, ok := e.doc.TextblockAt(from)
	if !ok {
		return fmt.Errorf("%w: cursor %d is not inside a textblock", domain.ErrOutOfRange, from)
	}
	if from == block.Start {
		_, err := e.JoinBackward(from)
		return err
	}
	e.sel = domain.Selection{Anchor: from - 1, Head: from}
	return e.InsertText("")
}

// Load replaces the whole document. Subscribers see a forced change.
func (e *Editor) Load(root *Node) error {
	checked, err := prepare(root)
	if err != nil {
		return err
	}
	e.doc = newDocument(checked, e.doc.Revision()+1)
	e.sel = e.initialSelection()
	e.notify(domain.DocumentChange{Forced: true, Revision: e.doc.Revision(), Size: e.doc.Size()})
	return nil
}

// ForceRefresh announces a forced change without altering the content.
func (e *Editor) ForceRefresh() {
	e.doc = newDocument(e.doc.root, e.doc.Revision()+1)
	e.notify(domain.DocumentChange{Forced: true, Revision: e.doc.Revision(), Size: e.doc.Size()})
}

func (e *Editor) commit(root *Node, m domain.Mapping) {
	e.doc = newDocument(root, e.doc.Revision()+1)
	e.SetSelection(e.sel.Map(m))
	e.notify(domain.DocumentChange{Mapping: m, Revision: e.doc.Revision(), Size: e.doc.Size()})
}

func (e *Editor) notify(change domain.DocumentChange) {
	subs := append([]subscription(nil), e.subs...)
	for _, sub := range subs {
		sub.fn(change)
	}
}
