package nfa

// returnNode ends the body of an atomic group or lookahead. Reaching it
// means the body matched; it returns the position it was reached at.
type returnNode struct {
	base
}

func (n *returnNode) Kind() Kind { return KindReturn }

func (n *returnNode) hasConsumed(*State) bool { return false }

func (n *returnNode) matches(_ *State, pos int) int {
	return pos
}

// atomicNode matches its body once, keeps the first way it matched, and
// never backtracks into it. Possessive composite quantifiers compile to
// an atomic greedy loop.
type atomicNode struct {
	base
	body   NodeID
	groups []int // capture groups inside the body
}

func (n *atomicNode) Kind() Kind { return KindAtomic }

func (n *atomicNode) matches(s *State, pos int) int {
	mark := s.saveGroups(n.groups)
	end := s.matchAt(n.body, pos)
	if end < 0 {
		s.dropSaved(mark)
		return -1
	}
	if res := s.matchAt(n.next, end); res >= 0 {
		s.dropSaved(mark)
		return res
	}
	s.restoreGroups(n.groups, mark)
	return -1
}

// lookaheadNode asserts that its body does (or, negated, does not) match
// at the current position, without consuming input. Captures made by a
// positive lookahead remain visible after it; a negative lookahead never
// exposes captures.
type lookaheadNode struct {
	base
	body   NodeID
	negate bool
	groups []int
}

func (n *lookaheadNode) Kind() Kind { return KindLookahead }

func (n *lookaheadNode) hasConsumed(*State) bool { return false }

func (n *lookaheadNode) matches(s *State, pos int) int {
	mark := s.saveGroups(n.groups)
	saved := s.rightBound
	s.rightBound = s.lookRight()
	end := s.matchAt(n.body, pos)
	s.rightBound = saved

	if n.negate {
		if end >= 0 {
			s.restoreGroups(n.groups, mark)
			return -1
		}
		s.dropSaved(mark)
		return s.matchAt(n.next, pos)
	}
	if end < 0 {
		s.dropSaved(mark)
		return -1
	}
	if res := s.matchAt(n.next, pos); res >= 0 {
		s.dropSaved(mark)
		return res
	}
	s.restoreGroups(n.groups, mark)
	return -1
}

// lookbehindNode asserts that its body matches (or, negated, does not)
// ending exactly at the current position.
//
// The body runs through findBack over the window of starts that its
// length bounds allow; its terminal behindEndNode accepts only at the
// position stored in the consumer slot. maxLen < 0 means the body length
// is unbounded and the window extends to the left edge.
type lookbehindNode struct {
	base
	body     NodeID
	negate   bool
	consumer int
	minLen   int // in code points
	maxLen   int // in code points, or -1
	groups   []int
}

func (n *lookbehindNode) Kind() Kind { return KindLookbehind }

func (n *lookbehindNode) hasConsumed(*State) bool { return false }

func (n *lookbehindNode) matches(s *State, pos int) int {
	left := s.lookLeft()
	to := stepBack(s, pos, n.minLen, left)
	if to < 0 {
		// Fewer than minLen code points before pos.
		if n.negate {
			return s.matchAt(n.next, pos)
		}
		return -1
	}
	from := left
	if n.maxLen >= 0 {
		// stepBack reports -1 when the window reaches the left edge.
		from = max(stepBack(s, pos, n.maxLen, left), left)
	}

	mark := s.saveGroups(n.groups)
	oldCons := s.consumed[n.consumer]
	s.consumed[n.consumer] = pos
	savedLeft := s.leftBound
	s.leftBound = left
	found := s.nodes[n.body].findBack(s, from, to)
	s.leftBound = savedLeft
	s.consumed[n.consumer] = oldCons

	if n.negate {
		if found >= 0 {
			s.restoreGroups(n.groups, mark)
			return -1
		}
		s.dropSaved(mark)
		return s.matchAt(n.next, pos)
	}
	if found < 0 {
		s.dropSaved(mark)
		return -1
	}
	if res := s.matchAt(n.next, pos); res >= 0 {
		s.dropSaved(mark)
		return res
	}
	s.restoreGroups(n.groups, mark)
	return -1
}

// stepBack moves k code points left from pos without crossing left. It
// returns -1 if fewer than k code points are available.
func stepBack(s *State, pos, k, left int) int {
	for ; k > 0; k-- {
		if pos <= left {
			return -1
		}
		_, w := s.in.StepBack(pos)
		pos -= w
	}
	return pos
}

// behindEndNode terminates a lookbehind body. It accepts only at the
// position the lookbehind was evaluated at.
type behindEndNode struct {
	base
	consumer int
}

func (n *behindEndNode) Kind() Kind { return KindBehindEnd }

func (n *behindEndNode) hasConsumed(*State) bool { return false }

func (n *behindEndNode) matches(s *State, pos int) int {
	if pos != s.consumed[n.consumer] {
		return -1
	}
	return pos
}
