package tree

// Edit describes a single text change already applied to the input.
// Position is expressed in coordinates of the text after all preceding edits.
type Edit struct {
	Position      int
	CharsInserted int
	CharsRemoved  int
}

// Delta returns the change of text length.
func (e Edit) Delta() int {
	return e.CharsInserted - e.CharsRemoved
}

// IsValid returns true if no field is negative.
func (e Edit) IsValid() bool {
	return e.Position >= 0 && e.CharsInserted >= 0 && e.CharsRemoved >= 0
}

type span struct {
	start, end, lookEnd int
	damaged             bool
}

// translate applies edit to a node span. Spans examined beyond the edit position
// but starting before the end of removed text are damaged.
func (s *span) translate(e Edit) {
	switch {
	case s.damaged, s.lookEnd <= e.Position:
	case s.start >= e.Position+e.CharsRemoved:
		d := e.Delta()
		s.start += d
		s.end += d
		s.lookEnd += d
	default:
		s.damaged = true
	}
}

type reuseKey struct {
	symbol string
	start  int
}

// ReuseIndex maps undamaged non-terminal nodes of a previous tree
// to their positions in the edited text.
type ReuseIndex struct {
	tree    *Tree
	spans   []span
	byStart map[reuseKey]int
}

// NewReuseIndex translates all non-terminal nodes of t through edits.
// Returns nil if t is invalid.
func NewReuseIndex(t *Tree, edits []Edit) *ReuseIndex {
	if !t.IsValid() {
		return nil
	}

	ri := &ReuseIndex{
		tree:    t,
		spans:   make([]span, len(t.nodes)),
		byStart: make(map[reuseKey]int),
	}

	Walk(t.RootNode(), WalkLtr, func(n Node) WalkerFlags {
		d := n.data()
		if !d.isNonTerm {
			return 0
		}

		s := span{start: d.start, end: d.end, lookEnd: d.lookEnd}
		for _, e := range edits {
			s.translate(e)
		}
		ri.spans[n.index] = s

		key := reuseKey{d.symbol, s.start}
		_, exists := ri.byStart[key]
		if !s.damaged && s.end > s.start && !exists {
			ri.byStart[key] = n.index
		}
		return 0
	})

	return ri
}

// Find returns the undamaged node of type symbol starting at offset in the edited text.
// Delta is the distance the node moved.
func (ri *ReuseIndex) Find(symbol string, offset int) (n Node, delta int, found bool) {
	if ri == nil || !ri.tree.IsValid() {
		return
	}

	index, found := ri.byStart[reuseKey{symbol, offset}]
	if !found {
		return
	}

	n = ri.tree.node(index)
	delta = offset - ri.tree.nodes[index].start
	return
}

// Damaged returns the number of damaged non-terminal nodes.
func (ri *ReuseIndex) Damaged() int {
	if ri == nil {
		return 0
	}

	res := 0
	for i, s := range ri.spans {
		if s.damaged && ri.tree.nodes[i].isNonTerm {
			res++
		}
	}
	return res
}
