package richtext

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/custodia-labs/proofmark/internal/core/domain"
)

// NodeType names a kind of node.
type NodeType string

// Supported node types. Names match ProseMirror's JSON schema.
const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeBlockquote     NodeType = "blockquote"
	NodeBulletList     NodeType = "bulletList"
	NodeOrderedList    NodeType = "orderedList"
	NodeListItem       NodeType = "listItem"
	NodeCodeBlock      NodeType = "codeBlock"
	NodeHorizontalRule NodeType = "horizontalRule"
	NodeText           NodeType = "text"
	NodeHardBreak      NodeType = "hardBreak"
)

// IsValid returns true if the type is supported.
func (t NodeType) IsValid() bool {
	switch t {
	case NodeDoc, NodeParagraph, NodeHeading, NodeBlockquote, NodeBulletList,
		NodeOrderedList, NodeListItem, NodeCodeBlock, NodeHorizontalRule,
		NodeText, NodeHardBreak:
		return true
	default:
		return false
	}
}

// IsTextblock reports whether the node holds inline content directly.
func (t NodeType) IsTextblock() bool {
	return t == NodeParagraph || t == NodeHeading || t == NodeCodeBlock
}

// IsInline reports whether the node lives inside a textblock.
func (t NodeType) IsInline() bool {
	return t == NodeText || t == NodeHardBreak
}

// IsLeaf reports whether the node has no content and occupies one position.
func (t NodeType) IsLeaf() bool {
	return t == NodeHardBreak || t == NodeHorizontalRule
}

// Mark is inline formatting attached to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is a node of the document tree. It marshals to ProseMirror JSON.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Paragraph builds a paragraph holding the given inline nodes.
func Paragraph(inline ...*Node) *Node {
	return &Node{Type: NodeParagraph, Content: inline}
}

// Text builds a text node.
func Text(text string, marks ...Mark) *Node {
	return &Node{Type: NodeText, Text: text, Marks: marks}
}

// Doc builds a document root.
func Doc(blocks ...*Node) *Node {
	return &Node{Type: NodeDoc, Content: blocks}
}

// Size returns the number of positions the node occupies in its parent.
func (n *Node) Size() int {
	switch {
	case n.Type == NodeText:
		return utf8.RuneCountInString(n.Text)
	case n.Type.IsLeaf():
		return 1
	default:
		return 2 + n.contentSize()
	}
}

func (n *Node) contentSize() int {
	size := 0
	for _, child := range n.Content {
		size += child.Size()
	}
	return size
}

func (n *Node) clone() *Node {
	c := *n
	if n.Content != nil {
		c.Content = make([]*Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = child.clone()
		}
	}
	return &c
}

// normalize checks the tree below n and drops empty text nodes in place.
func normalize(n *Node, parent NodeType) error {
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: node type %q", domain.ErrUnsupportedType, n.Type)
	}
	if parent != "" {
		if parent.IsTextblock() != n.Type.IsInline() {
			return fmt.Errorf("%w: %s inside %s", domain.ErrInvalidInput, n.Type, parent)
		}
		if n.Type == NodeDoc {
			return fmt.Errorf("%w: nested doc", domain.ErrInvalidInput)
		}
	}
	if n.Type == NodeText || n.Type.IsLeaf() {
		if len(n.Content) > 0 {
			return fmt.Errorf("%w: %s with content", domain.ErrInvalidInput, n.Type)
		}
		return nil
	}

	kept := n.Content[:0]
	for _, child := range n.Content {
		if child == nil || (child.Type == NodeText && child.Text == "") {
			continue
		}
		if err := normalize(child, n.Type); err != nil {
			return err
		}
		kept = append(kept, child)
	}
	n.Content = kept
	return nil
}

func marksEqual(a, b []Mark) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// unit is one position of a textblock's content.
type unit struct {
	r     rune
	brk   bool
	marks []Mark
}

func explode(block *Node) []unit {
	units := make([]unit, 0, block.contentSize())
	for _, child := range block.Content {
		if child.Type == NodeHardBreak {
			units = append(units, unit{brk: true})
			continue
		}
		for _, r := range child.Text {
			units = append(units, unit{r: r, marks: child.Marks})
		}
	}
	return units
}

func implode(units []unit) []*Node {
	var nodes []*Node
	var current *Node
	var buf []rune
	flush := func() {
		if current != nil {
			current.Text = string(buf)
			nodes = append(nodes, current)
			current, buf = nil, buf[:0]
		}
	}
	for _, u := range units {
		if u.brk {
			flush()
			nodes = append(nodes, &Node{Type: NodeHardBreak})
			continue
		}
		if current == nil || !marksEqual(current.Marks, u.marks) {
			flush()
			current = &Node{Type: NodeText, Marks: u.marks}
		}
		buf = append(buf, u.r)
	}
	flush()
	return nodes
}
