package nfa

// Node is one element of a compiled pattern. The matching methods are
// unexported: nodes are only ever driven by a State.
type Node interface {
	// Kind returns the node type.
	Kind() Kind

	// Next returns the successor, or InvalidNode for terminal nodes.
	Next() NodeID

	// matches returns the end of the overall match when the pattern
	// starting at this node matches at pos, or -1.
	matches(s *State, pos int) int

	// find returns the first p >= from where matches succeeds, or -1.
	find(s *State, from int) int

	// findBack returns the last p in [from, to] where matches succeeds,
	// or -1.
	findBack(s *State, from, to int) int

	// hasConsumed reports whether the last pass through the node
	// consumed input.
	hasConsumed(s *State) bool

	bind(id NodeID)
	setNext(next NodeID)
}

// base carries the identity and successor of a node and supplies the
// default find, findBack and hasConsumed.
type base struct {
	id   NodeID
	next NodeID
}

func (b *base) Next() NodeID            { return b.next }
func (b *base) bind(id NodeID)          { b.id = id }
func (b *base) setNext(next NodeID)     { b.next = next }
func (b *base) hasConsumed(*State) bool { return true }

func (b *base) find(s *State, from int) int {
	return s.scan(b.id, from)
}

func (b *base) findBack(s *State, from, to int) int {
	return s.scanBack(b.id, from, to)
}

// leaf is a node that consumes exactly one code point. Repeats drive
// leaves directly through accepts instead of recursing through matches.
type leaf interface {
	Node

	// accepts returns the width of the code point at pos when the node
	// accepts it, or -1.
	accepts(s *State, pos int) int
}

// matchLeaf is the matches implementation shared by all leaves.
func matchLeaf(s *State, l leaf, pos int) int {
	w := l.accepts(s, pos)
	if w < 0 {
		return -1
	}
	return s.matchAt(l.Next(), pos+w)
}

// placeholderNode fills a slot reserved by the builder until the compiler
// patches in the real node. A finished graph never contains one.
type placeholderNode struct {
	base
}

func (n *placeholderNode) Kind() Kind                    { return kindPlaceholder }
func (n *placeholderNode) matches(*State, int) int       { return -1 }
func (n *placeholderNode) find(*State, int) int          { return -1 }
func (n *placeholderNode) findBack(*State, int, int) int { return -1 }

// successors returns the edges of n other than Next.
func successors(n Node) []NodeID {
	switch n := n.(type) {
	case *jointNode:
		return n.children
	case *singleNode:
		return []NodeID{n.kid}
	case *backRefSingleNode:
		return []NodeID{n.kid}
	case *leafRepeatNode:
		return []NodeID{n.item}
	case *dotStarNode:
		return []NodeID{n.item}
	case *loopEntryNode:
		return []NodeID{n.loop}
	case *loopNode:
		return []NodeID{n.body}
	case *atomicNode:
		return []NodeID{n.body}
	case *lookaheadNode:
		return []NodeID{n.body}
	case *lookbehindNode:
		return []NodeID{n.body}
	}
	return nil
}
