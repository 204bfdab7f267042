package tree

type WalkerFlags int

const (
	// WalkerSkipChildren prevents visiting children of current node.
	WalkerSkipChildren WalkerFlags = 1 << iota
	// WalkerSkipSiblings prevents visiting remaining siblings of current node.
	WalkerSkipSiblings
	// WalkerStop stops walking.
	WalkerStop
)

// NodeVisitor is called for each visited node.
type NodeVisitor func(n Node) WalkerFlags

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Walk visits n and its descendants depth-first.
func Walk(n Node, mode WalkMode, visitor NodeVisitor) {
	if n.IsValid() {
		visitNode(n, visitor, (mode&WalkRtl) != 0)
	}
}

func visitNode(n Node, v NodeVisitor, rtl bool) WalkerFlags {
	flags := v(n)
	if flags&(WalkerSkipChildren|WalkerStop) != 0 {
		return flags
	}

	count := n.ChildCount()
	for i := 0; i < count; i++ {
		ci := i
		if rtl {
			ci = count - i - 1
		}
		cf := visitNode(n.Child(ci), v, rtl)
		if cf&WalkerStop != 0 {
			return flags | WalkerStop
		}
		if cf&WalkerSkipSiblings != 0 {
			break
		}
	}

	return flags
}

// Ancestor returns n ancestor, level 0 means the parent node.
func Ancestor(n Node, level int) Node {
	for n.IsValid() && level >= 0 {
		n = n.Parent()
		level--
	}
	return n
}

// NodeLevel returns the depth of n, root node has level 0.
func NodeLevel(n Node) (l int) {
	if !n.IsValid() {
		return
	}

	p := n.Parent()
	for p.IsValid() {
		l++
		p = p.Parent()
	}
	return
}

func SiblingIndex(n Node) int {
	p := n.Parent()
	for i, c := range p.Children() {
		if c == n {
			return i
		}
	}
	return 0
}

// NthSibling returns a sibling i positions after n (before n if i is negative).
func NthSibling(n Node, i int) Node {
	if !n.IsValid() {
		return Node{}
	}

	p := n.Parent()
	if !p.IsValid() {
		if i == 0 {
			return n
		}
		return Node{}
	}

	i += SiblingIndex(n)
	if i < 0 {
		return Node{}
	}
	return p.Child(i)
}

const AllLevels = -1

// NumOfChildren counts descendants of parent down to given number of levels.
func NumOfChildren(parent Node, levels int) int {
	i := 0
	for _, c := range parent.Children() {
		i++
		if levels != 0 {
			i += NumOfChildren(c, levels-1)
		}
	}
	return i
}

func FirstTokenNode(n Node) Node {
	if !n.IsNonTerm() {
		return n
	}

	for _, c := range n.Children() {
		if t := FirstTokenNode(c); t.IsValid() {
			return t
		}
	}
	return Node{}
}

func LastTokenNode(n Node) Node {
	if !n.IsNonTerm() {
		return n
	}

	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if t := LastTokenNode(children[i]); t.IsValid() {
			return t
		}
	}
	return Node{}
}

// NextTokenNode returns the first token following n.
func NextTokenNode(n Node) Node {
	for n.IsValid() {
		for nn := n.Next(); nn.IsValid(); nn = nn.Next() {
			if t := FirstTokenNode(nn); t.IsValid() {
				return t
			}
		}
		n = n.Parent()
	}
	return Node{}
}

// PrevTokenNode returns the last token preceding n.
func PrevTokenNode(n Node) Node {
	for n.IsValid() {
		for nn := n.Prev(); nn.IsValid(); nn = nn.Prev() {
			if t := LastTokenNode(nn); t.IsValid() {
				return t
			}
		}
		n = n.Parent()
	}
	return Node{}
}

// DescendantForOffset returns the deepest descendant of n containing character at offset.
// Returns n itself if no child contains offset, invalid node if n does not contain it.
func DescendantForOffset(n Node, offset int) Node {
	if !n.IsValid() || offset < n.Start() || offset >= n.End() {
		return Node{}
	}

	for {
		var next Node
		for _, c := range n.Children() {
			if offset >= c.Start() && offset < c.End() {
				next = c
				break
			}
		}
		if !next.IsValid() {
			return n
		}
		n = next
	}
}
