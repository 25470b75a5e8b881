package syntax

import (
	"fmt"
	"strings"
)

// Span is a stable identity for a node within one parsed tree, usable as a
// cache or memo key across many queries against the same document revision.
type Span uint64

// Detached is the span of a node that is not part of any tree.
const Detached Span = 0

func (s Span) IsDetached() bool { return s == Detached }

// Node is an immutable syntax node. Leaves carry text, inner nodes carry
// children. Parent links are fixed when the tree is built, so a Node doubles
// as the navigation cursor.
type Node struct {
	kind     Kind
	text     string
	children []*Node
	parent   *Node
	span     Span
	offset   int
}

// NewLeaf creates a detached leaf node. Used by the parser and by tests that
// assemble trees by hand.
func NewLeaf(kind Kind, text string) *Node {
	return &Node{kind: kind, text: text}
}

// NewInner creates a detached inner node owning the given children.
func NewInner(kind Kind, children ...*Node) *Node {
	n := &Node{kind: kind, children: children}
	for _, child := range children {
		child.parent = n
	}
	if len(children) > 0 {
		n.offset = children[0].offset
	}
	return n
}

func (n *Node) Kind() Kind    { return n.kind }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Span() Span    { return n.span }
func (n *Node) Offset() int   { return n.offset }

// ParentKind returns the parent's kind, or Error if the node is the root.
func (n *Node) ParentKind() Kind {
	if n.parent == nil {
		return Error
	}
	return n.parent.kind
}

func (n *Node) Children() []*Node { return n.children }

// Range returns the [start, end) byte offsets of the node.
func (n *Node) Range() (int, int) {
	if len(n.children) == 0 {
		return n.offset, n.offset + len(n.text)
	}
	_, end := n.children[len(n.children)-1].Range()
	return n.offset, end
}

// Text returns the node's source text. For inner nodes this concatenates the
// leaves, so spacing between tokens is normalized away.
func (n *Node) Text() string {
	if len(n.children) == 0 {
		return n.text
	}
	var sb strings.Builder
	for i, child := range n.children {
		if i > 0 {
			prevEnd := func() int { _, e := n.children[i-1].Range(); return e }()
			if child.offset > prevEnd {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(child.Text())
	}
	return sb.String()
}

// PrevSibling returns the previous sibling.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	idx := n.index()
	if idx <= 0 {
		return nil
	}
	return n.parent.children[idx-1]
}

// NextSibling returns the next sibling.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	idx := n.index()
	if idx < 0 || idx+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[idx+1]
}

// NextSiblingKind returns the next sibling's kind, or Error.
func (n *Node) NextSiblingKind() Kind {
	if next := n.NextSibling(); next != nil {
		return next.kind
	}
	return Error
}

// PrevLeaf returns the closest leaf before this node in document order.
func (n *Node) PrevLeaf() *Node {
	node := n
	for node.parent != nil {
		idx := node.index()
		for i := idx - 1; i >= 0; i-- {
			if leaf := node.parent.children[i].rightmostLeaf(); leaf != nil {
				return leaf
			}
		}
		node = node.parent
	}
	return nil
}

func (n *Node) index() int {
	for i, child := range n.parent.children {
		if child == n {
			return i
		}
	}
	return -1
}

func (n *Node) rightmostLeaf() *Node {
	node := n
	for len(node.children) > 0 {
		node = node.children[len(node.children)-1]
	}
	return node
}

// Find locates the node with the given span in this subtree. Runs as an
// explicit worklist so pathological nesting depth cannot overflow the stack.
func (n *Node) Find(span Span) *Node {
	if span.IsDetached() {
		return nil
	}
	worklist := []*Node{n}
	for len(worklist) > 0 {
		node := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if node.span == span {
			return node
		}
		worklist = append(worklist, node.children...)
	}
	return nil
}

// LeafAt returns the leaf just before or covering the given byte offset
// (cursor semantics: for `f(|)` the offset lands on the left paren).
func (n *Node) LeafAt(offset int) *Node {
	node := n
	for len(node.children) > 0 {
		var candidate *Node
		for _, child := range node.children {
			start, end := child.Range()
			if start < offset && offset <= end {
				candidate = child
				break
			}
			if end <= offset {
				candidate = child
			}
		}
		if candidate == nil {
			return nil
		}
		node = candidate
	}
	return node
}

func (n *Node) String() string {
	if len(n.children) == 0 {
		return fmt.Sprintf("%v(%q)", n.kind, n.text)
	}
	parts := make([]string, 0, len(n.children))
	for _, child := range n.children {
		parts = append(parts, child.String())
	}
	return fmt.Sprintf("%v[%s]", n.kind, strings.Join(parts, " "))
}

// numberNodes assigns spans to the subtree in document order. Spans start at 1
// so that zero remains the detached marker.
func numberNodes(root *Node) {
	span := Span(1)
	worklist := []*Node{root}
	for len(worklist) > 0 {
		node := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		node.span = span
		span++
		for i := len(node.children) - 1; i >= 0; i-- {
			worklist = append(worklist, node.children[i])
		}
	}
}
