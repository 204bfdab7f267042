// Package tree defines syntax trees produced by parser.
//
// Nodes are stored in a per-tree arena and addressed by Node handles.
// A handle remembers the generation of its tree; once the tree is invalidated
// (superseded by a newer parse result) every handle resolves to absent values.
package tree

import (
	"strings"

	"github.com/ava12/llxdoc/source"
)

const noNode = -1

type nodeData struct {
	symbol     string
	isNonTerm  bool
	tokenType  int
	text       string
	start, end int
	lookEnd    int
	startPoint source.Point
	endPoint   source.Point
	parent     int
	children   []int
}

// Stats holds counters collected while a tree was built.
type Stats struct {
	// Reads is the number of Read calls made to the input.
	Reads int
	// Seeks is the number of Seek calls made to the input.
	Seeks int
	// Reused is the number of nodes copied from the previous tree.
	Reused int
}

// Tree is an immutable result of a successful parse.
type Tree struct {
	generation int
	nodes      []nodeData
	root       int
	stats      Stats
}

// RootNode returns the root node or invalid node if the tree is invalidated.
func (t *Tree) RootNode() Node {
	if t == nil || t.nodes == nil {
		return Node{}
	}
	return t.node(t.root)
}

// IsValid returns false once the tree is invalidated.
func (t *Tree) IsValid() bool {
	return t != nil && t.nodes != nil
}

// Invalidate releases the arena. All nodes of the tree become invalid, permanently.
func (t *Tree) Invalidate() {
	if t == nil || t.nodes == nil {
		return
	}

	t.generation++
	t.nodes = nil
}

// Len returns the number of nodes including tokens.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

func (t *Tree) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return t.stats
}

// String returns S-expression of the root node.
func (t *Tree) String() string {
	return t.RootNode().String()
}

func (t *Tree) node(index int) Node {
	if index < 0 {
		return Node{}
	}
	return Node{t, index, t.generation}
}

// Node is a handle of a tree node: either a non-terminal or a token.
// Zero value is an invalid node.
type Node struct {
	tree       *Tree
	index      int
	generation int
}

func (n Node) data() *nodeData {
	if n.tree == nil || n.tree.generation != n.generation || n.index >= len(n.tree.nodes) {
		return nil
	}
	return &n.tree.nodes[n.index]
}

// IsValid returns true if the node belongs to a tree that is not invalidated.
func (n Node) IsValid() bool {
	return n.data() != nil
}

// Tree returns owning tree or nil for invalid node.
func (n Node) Tree() *Tree {
	if n.data() == nil {
		return nil
	}
	return n.tree
}

// Type returns non-terminal name or token type name, empty string for invalid node.
func (n Node) Type() string {
	d := n.data()
	if d == nil {
		return ""
	}
	return d.symbol
}

// IsNonTerm returns true for non-terminal nodes.
func (n Node) IsNonTerm() bool {
	d := n.data()
	return d != nil && d.isNonTerm
}

// IsToken returns true for token nodes.
func (n Node) IsToken() bool {
	d := n.data()
	return d != nil && !d.isNonTerm
}

// TokenType returns token type for token nodes, -1 otherwise.
func (n Node) TokenType() int {
	d := n.data()
	if d == nil || d.isNonTerm {
		return -1
	}
	return d.tokenType
}

// Text returns token text for token nodes, empty string otherwise.
func (n Node) Text() string {
	d := n.data()
	if d == nil {
		return ""
	}
	return d.text
}

// Start returns character offset of the node start or -1 for invalid node.
func (n Node) Start() int {
	d := n.data()
	if d == nil {
		return -1
	}
	return d.start
}

// End returns character offset following the node or -1 for invalid node.
func (n Node) End() int {
	d := n.data()
	if d == nil {
		return -1
	}
	return d.end
}

// LookEnd returns the offset following the last character examined while the node was parsed,
// -1 for invalid node.
func (n Node) LookEnd() int {
	d := n.data()
	if d == nil {
		return -1
	}
	return d.lookEnd
}

func (n Node) StartPoint() source.Point {
	d := n.data()
	if d == nil {
		return source.NoPoint
	}
	return d.startPoint
}

func (n Node) EndPoint() source.Point {
	d := n.data()
	if d == nil {
		return source.NoPoint
	}
	return d.endPoint
}

func (n Node) Parent() Node {
	d := n.data()
	if d == nil {
		return Node{}
	}
	return n.tree.node(d.parent)
}

// ChildCount returns the number of direct children including tokens.
func (n Node) ChildCount() int {
	d := n.data()
	if d == nil {
		return 0
	}
	return len(d.children)
}

// Child returns i-th child, negative indexes count from the end.
func (n Node) Child(i int) Node {
	d := n.data()
	if d == nil {
		return Node{}
	}

	if i < 0 {
		i += len(d.children)
	}
	if i < 0 || i >= len(d.children) {
		return Node{}
	}
	return n.tree.node(d.children[i])
}

// Children returns all direct children including tokens, nil for invalid node.
func (n Node) Children() []Node {
	d := n.data()
	if d == nil {
		return nil
	}

	res := make([]Node, len(d.children))
	for i, c := range d.children {
		res[i] = n.tree.node(c)
	}
	return res
}

// NonTermChildren returns direct non-terminal children, nil for invalid node.
func (n Node) NonTermChildren() []Node {
	d := n.data()
	if d == nil {
		return nil
	}

	res := make([]Node, 0, len(d.children))
	for _, c := range d.children {
		if n.tree.nodes[c].isNonTerm {
			res = append(res, n.tree.node(c))
		}
	}
	return res
}

func (n Node) sibling(delta int) Node {
	d := n.data()
	if d == nil || d.parent < 0 {
		return Node{}
	}

	siblings := n.tree.nodes[d.parent].children
	for i, c := range siblings {
		if c == n.index {
			i += delta
			if i < 0 || i >= len(siblings) {
				return Node{}
			}
			return n.tree.node(siblings[i])
		}
	}
	return Node{}
}

func (n Node) Prev() Node {
	return n.sibling(-1)
}

func (n Node) Next() Node {
	return n.sibling(1)
}

// String returns S-expression "(type (child) ...)" listing non-terminals only.
// Returns empty string for invalid node and for tokens.
func (n Node) String() string {
	d := n.data()
	if d == nil || !d.isNonTerm {
		return ""
	}

	sb := &strings.Builder{}
	n.tree.writeNode(sb, n.index)
	return sb.String()
}

func (t *Tree) writeNode(sb *strings.Builder, index int) {
	d := &t.nodes[index]
	sb.WriteByte('(')
	sb.WriteString(d.symbol)
	for _, c := range d.children {
		if t.nodes[c].isNonTerm {
			sb.WriteByte(' ')
			t.writeNode(sb, c)
		}
	}
	sb.WriteByte(')')
}
