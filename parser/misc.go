package parser

type nodeRec struct {
	index int
	state int
	node  int
}

type nodeStack struct {
	nodes []nodeRec
}

func newNodeStack() *nodeStack {
	return &nodeStack{}
}

func (s *nodeStack) IsEmpty() bool {
	return len(s.nodes) == 0
}

func (s *nodeStack) Push(n nodeRec) {
	s.nodes = append(s.nodes, n)
}

func (s *nodeStack) Drop() {
	if len(s.nodes) != 0 {
		s.nodes = s.nodes[:len(s.nodes)-1]
	}
}

func (s *nodeStack) Top() *nodeRec {
	if len(s.nodes) == 0 {
		return nil
	}

	return &s.nodes[len(s.nodes)-1]
}
