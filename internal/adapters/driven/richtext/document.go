package richtext

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driven"
)

// Ensure Document implements the interface.
var _ driven.Document = (*Document)(nil)

// Document is an immutable snapshot of the editor content.
type Document struct {
	root     *Node
	revision uint64
	size     int
}

func newDocument(root *Node, revision uint64) *Document {
	return &Document{root: root, revision: revision, size: root.contentSize()}
}

// Size returns the content size of the document.
func (d *Document) Size() int {
	return d.size
}

// Revision returns the revision that produced this snapshot.
func (d *Document) Revision() uint64 {
	return d.revision
}

// Walk visits every text node in document order.
func (d *Document) Walk(v driven.DocumentVisitor) {
	walkText(d.root, 0, v)
}

func walkText(n *Node, start domain.Position, v driven.DocumentVisitor) {
	pos := start
	for _, child := range n.Content {
		switch {
		case child.Type == NodeText:
			v.VisitText(pos, child.Text)
		case child.Type.IsLeaf():
		default:
			walkText(child, pos+1, v)
		}
		pos += domain.Position(child.Size())
	}
}

type visitFunc func(pos domain.Position, text string)

func (f visitFunc) VisitText(pos domain.Position, text string) { f(pos, text) }

// TextBetween returns the text of all text nodes in [from, to).
func (d *Document) TextBetween(from, to domain.Position) string {
	var b strings.Builder
	d.Walk(visitFunc(func(pos domain.Position, text string) {
		end := pos + domain.Position(len([]rune(text)))
		if end <= from || pos >= to {
			return
		}
		runes := []rune(text)
		lo := max(from, pos) - pos
		hi := min(to, end) - pos
		b.WriteString(string(runes[lo:hi]))
	}))
	return b.String()
}

// Root returns a copy of the document tree.
func (d *Document) Root() *Node {
	return d.root.clone()
}

// MarshalJSON encodes the document as ProseMirror JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.root)
}

// PlainText renders textblocks one per line; hard breaks become newlines.
func (d *Document) PlainText() string {
	blocks := d.Textblocks()
	lines := make([]string, len(blocks))
	for i, block := range blocks {
		lines[i] = block.Text
	}
	return strings.Join(lines, "\n")
}

// Textblock describes one textblock for rendering. Text holds exactly one
// rune per position, so Start+i is the position of the i-th rune.
type Textblock struct {
	Type  NodeType
	Attrs map[string]any

	// Start is the position of the first content character.
	Start domain.Position

	// End is the position just after the last content character.
	End domain.Position

	// Text is the content with hard breaks rendered as '\n'.
	Text string

	// Marks holds the marks of each rune of Text.
	Marks [][]Mark

	// Prefix is the list or quote decoration to draw before the block.
	Prefix string

	path []int
}

// Level returns the heading level, or 0 for other blocks.
func (b Textblock) Level() int {
	if b.Type != NodeHeading {
		return 0
	}
	switch v := b.Attrs["level"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 1
}

// Contains reports whether pos lies within the block's content.
func (b Textblock) Contains(pos domain.Position) bool {
	return pos >= b.Start && pos <= b.End
}

// Textblocks returns every textblock in document order.
func (d *Document) Textblocks() []Textblock {
	var out []Textblock
	collectBlocks(d.root, 0, "", nil, &out)
	return out
}

func collectBlocks(n *Node, start domain.Position, prefix string, path []int, out *[]Textblock) {
	pos := start
	for i, child := range n.Content {
		childPath := append(append([]int(nil), path...), i)
		childPrefix := prefix
		switch n.Type {
		case NodeBlockquote:
			childPrefix = prefix + "> "
		case NodeBulletList:
			childPrefix = prefix + "• "
		case NodeOrderedList:
			childPrefix = prefix + strconv.Itoa(orderedStart(n)+i) + ". "
		case NodeListItem:
			if i > 0 {
				childPrefix = strings.Repeat(" ", len([]rune(prefix)))
			}
		}

		switch {
		case child.Type.IsTextblock():
			units := explode(child)
			text := make([]rune, len(units))
			marks := make([][]Mark, len(units))
			for j, u := range units {
				text[j] = u.r
				if u.brk {
					text[j] = '\n'
				}
				marks[j] = u.marks
			}
			*out = append(*out, Textblock{
				Type:   child.Type,
				Attrs:  child.Attrs,
				Start:  pos + 1,
				End:    pos + 1 + domain.Position(len(units)),
				Text:   string(text),
				Marks:  marks,
				Prefix: childPrefix,
				path:   childPath,
			})
		case !child.Type.IsLeaf() && !child.Type.IsInline():
			collectBlocks(child, pos+1, childPrefix, childPath, out)
		}
		pos += domain.Position(child.Size())
	}
}

func orderedStart(n *Node) int {
	if v, ok := n.Attrs["start"].(float64); ok {
		return int(v)
	}
	if v, ok := n.Attrs["start"].(int); ok {
		return v
	}
	return 1
}

// TextblockAt returns the textblock whose content contains pos.
func (d *Document) TextblockAt(pos domain.Position) (Textblock, bool) {
	for _, block := range d.Textblocks() {
		if block.Contains(pos) {
			return block, true
		}
	}
	return Textblock{}, false
}

// nodeAt returns the node at path.
func (d *Document) nodeAt(path []int) *Node {
	n := d.root
	for _, i := range path {
		n = n.Content[i]
	}
	return n
}

// withChildren returns a copy of root in which the content of the node at
// parentPath is replaced by fn(content). Untouched subtrees are shared.
func withChildren(root *Node, parentPath []int, fn func([]*Node) []*Node) *Node {
	c := *root
	if len(parentPath) == 0 {
		content := append([]*Node(nil), root.Content...)
		c.Content = fn(content)
		return &c
	}
	c.Content = append([]*Node(nil), root.Content...)
	c.Content[parentPath[0]] = withChildren(root.Content[parentPath[0]], parentPath[1:], fn)
	return &c
}
