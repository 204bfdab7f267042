package tree

import (
	"github.com/ava12/llxdoc/lexer"
	"github.com/ava12/llxdoc/source"
)

// Builder collects nodes of a new tree.
// Non-terminal nodes are created open; their spans are computed when closed.
type Builder struct {
	nodes []nodeData
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) add(d nodeData) int {
	b.nodes = append(b.nodes, d)
	return len(b.nodes) - 1
}

// NonTerm creates an open non-terminal node and returns its index.
func (b *Builder) NonTerm(symbol string) int {
	return b.add(nodeData{symbol: symbol, isNonTerm: true, tokenType: -1, parent: noNode})
}

// Token creates a token node and returns its index.
func (b *Builder) Token(t *lexer.Token) int {
	return b.add(nodeData{
		symbol:     t.TypeName(),
		tokenType:  t.Type(),
		text:       t.Text(),
		start:      t.Start(),
		end:        t.End(),
		lookEnd:    t.End(),
		startPoint: t.StartPoint(),
		endPoint:   t.EndPoint(),
		parent:     noNode,
	})
}

// Append makes child the last child of parent.
func (b *Builder) Append(parent, child int) {
	b.nodes[parent].children = append(b.nodes[parent].children, child)
	b.nodes[child].parent = parent
}

// Close computes the span of non-terminal node from its children.
// A node without children gets zero-width span at offset at and point p.
// lookEnd is the offset following the last character examined so far.
func (b *Builder) Close(index, lookEnd, at int, p source.Point) {
	d := &b.nodes[index]
	if len(d.children) == 0 {
		d.start, d.end = at, at
		d.startPoint, d.endPoint = p, p
	} else {
		first := &b.nodes[d.children[0]]
		last := &b.nodes[d.children[len(d.children)-1]]
		d.start, d.startPoint = first.start, first.startPoint
		d.end, d.endPoint = last.end, last.endPoint
	}
	if lookEnd < d.end {
		lookEnd = d.end
	}
	d.lookEnd = lookEnd
}

// Start returns start offset of a closed node.
func (b *Builder) Start(index int) int {
	return b.nodes[index].start
}

// ChildCount returns the number of node children.
func (b *Builder) ChildCount(index int) int {
	return len(b.nodes[index].children)
}

// End returns end offset and end point of a closed node.
func (b *Builder) End(index int) (int, source.Point) {
	d := &b.nodes[index]
	return d.end, d.endPoint
}

// LookEnd returns lookahead extent of a closed node.
func (b *Builder) LookEnd(index int) int {
	return b.nodes[index].lookEnd
}

// Copy copies subtree of node n into the builder, shifting offsets by delta.
// Points are recomputed relative to new starting point p.
// Returns index of the copied node and the number of nodes copied.
func (b *Builder) Copy(n Node, delta int, p source.Point) (int, int) {
	d := n.data()
	if d == nil {
		return noNode, 0
	}

	from := d.startPoint
	count := 0
	var copyNode func(index int) int
	copyNode = func(index int) int {
		od := &n.tree.nodes[index]
		nd := *od
		nd.start += delta
		nd.end += delta
		nd.lookEnd += delta
		nd.startPoint = od.startPoint.Shift(from, p)
		nd.endPoint = od.endPoint.Shift(from, p)
		nd.parent = noNode
		nd.children = nil
		result := b.add(nd)
		count++
		for _, c := range od.children {
			b.Append(result, copyNode(c))
		}
		return result
	}

	return copyNode(n.index), count
}

// Tree finishes building, root is the index of the root node.
func (b *Builder) Tree(root int, stats Stats) *Tree {
	t := &Tree{nodes: b.nodes, root: root, stats: stats}
	b.nodes = nil
	return t
}
