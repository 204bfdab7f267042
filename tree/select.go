package tree

type NodeFilter func(n Node) bool
type NodeExtractor func(n Node) []Node

// NodeSelector transforms a single node into a list of nodes.
type NodeSelector func(n Node) []Node

// Selector is a chain of node selectors applied one after another.
type Selector struct {
	selectors []NodeSelector
}

func NewSelector() *Selector {
	return &Selector{}
}

// Apply runs the chain for each input node and returns distinct resulting nodes
// in order of appearance. Invalid nodes are ignored.
func (s *Selector) Apply(input ...Node) []Node {
	res := make([]Node, 0)
	index := make(map[Node]bool)

	for i, n := range input {
		if !n.IsValid() {
			continue
		}

		ns := input[i : i+1]
		if len(s.selectors) > 0 {
			ns = selectNodes(ns, s.selectors)
		}

		for _, tn := range ns {
			if !index[tn] {
				index[tn] = true
				res = append(res, tn)
			}
		}
	}

	return res
}

func selectNodes(ns []Node, nss []NodeSelector) []Node {
	res := make([]Node, 0)
	s := nss[0]
	nss = nss[1:]
	for _, n := range ns {
		if len(nss) > 0 {
			res = append(res, selectNodes(s(n), nss)...)
		} else {
			res = append(res, s(n)...)
		}
	}
	return res
}

func (s *Selector) Use(ns NodeSelector) *Selector {
	if ns != nil {
		s.selectors = append(s.selectors, ns)
	}
	return s
}

func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Use(func(n Node) []Node {
		if nf(n) {
			return []Node{n}
		}
		return nil
	})
}

func (s *Selector) Extract(ne NodeExtractor) *Selector {
	return s.Use(func(n Node) []Node {
		return ne(n)
	})
}

// Search selects matching descendants of each node (the node itself included).
// Descendants of a matching node are searched only if deepSearch is true.
func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Use(func(n Node) []Node {
		res := make([]Node, 0)
		Walk(n, WalkLtr, func(nn Node) WalkerFlags {
			if nf(nn) {
				res = append(res, nn)
				if !deepSearch {
					return WalkerSkipChildren
				}
			}
			return 0
		})
		return res
	})
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n Node) bool {
		return !f(n)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

// IsA matches nodes of any of given types.
func IsA(types ...string) NodeFilter {
	return func(n Node) bool {
		tn := n.Type()
		for _, name := range types {
			if tn == name {
				return true
			}
		}
		return false
	}
}

// IsALiteral matches tokens having any of given texts.
func IsALiteral(texts ...string) NodeFilter {
	return func(n Node) bool {
		if !n.IsToken() {
			return false
		}

		t := n.Text()
		for _, text := range texts {
			if text == t {
				return true
			}
		}
		return false
	}
}

// IsNonTerm matches non-terminal nodes.
func IsNonTerm(n Node) bool {
	return n.IsNonTerm()
}

// Any returns the result of the first extractor giving non-empty list.
func Any(nss ...NodeExtractor) NodeExtractor {
	return func(n Node) (res []Node) {
		for _, ns := range nss {
			res = ns(n)
			if len(res) > 0 {
				break
			}
		}
		return
	}
}

// All concatenates the results of all extractors.
func All(nss ...NodeExtractor) NodeExtractor {
	return func(n Node) (res []Node) {
		for _, ns := range nss {
			res = append(res, ns(n)...)
		}
		return
	}
}

func Ancestors(levels ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range levels {
			nn := Ancestor(n, i)
			if nn.IsValid() {
				res = append(res, nn)
			}
		}
		return res
	}
}

func NthChildren(indexes ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range indexes {
			nn := n.Child(i)
			if nn.IsValid() {
				res = append(res, nn)
			}
		}
		return res
	}
}

func NthSiblings(indexes ...int) NodeExtractor {
	return func(n Node) []Node {
		res := make([]Node, 0)
		for _, i := range indexes {
			nn := NthSibling(n, i)
			if nn.IsValid() {
				res = append(res, nn)
			}
		}
		return res
	}
}
