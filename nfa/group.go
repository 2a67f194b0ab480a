package nfa

// jointNode tries its children in order and returns the first success.
// It implements alternation, capturing groups with several branches, and
// loop bodies that need consumption tracking.
//
// When group >= 0 the group's start is recorded on entry; the matching
// groupEndNode records the end. When consumer >= 0 the entry position is
// stored in that slot so the groupEndNode can compute how much the
// iteration consumed.
type jointNode struct {
	base
	children []NodeID
	group    int
	consumer int
}

func (n *jointNode) Kind() Kind { return KindJoint }

func (n *jointNode) matches(s *State, pos int) int {
	oldStart, oldCons := enterGroup(s, n.group, n.consumer, pos)
	for _, c := range n.children {
		if res := s.matchAt(c, pos); res >= 0 {
			return res
		}
	}
	leaveGroup(s, n.group, n.consumer, oldStart, oldCons)
	return -1
}

func (n *jointNode) hasConsumed(s *State) bool {
	return consumedInput(s, n.consumer)
}

// singleNode is a group with exactly one branch. Since the group matches
// wherever its body does, find and findBack delegate to the body and then
// record the start.
//
// Delegation is unsound when the body's continuation back-references the
// group: the start is recorded only after the body's search returns. The
// compiler replaces such nodes with backRefSingleNode.
type singleNode struct {
	base
	kid      NodeID
	group    int
	consumer int
}

func (n *singleNode) Kind() Kind { return KindSingle }

func (n *singleNode) matches(s *State, pos int) int {
	oldStart, oldCons := enterGroup(s, n.group, n.consumer, pos)
	if res := s.matchAt(n.kid, pos); res >= 0 {
		return res
	}
	leaveGroup(s, n.group, n.consumer, oldStart, oldCons)
	return -1
}

func (n *singleNode) find(s *State, from int) int {
	res := s.nodes[n.kid].find(s, from)
	if res >= 0 && n.group >= 0 {
		s.groups[2*n.group] = res
	}
	return res
}

func (n *singleNode) findBack(s *State, from, to int) int {
	res := s.nodes[n.kid].findBack(s, from, to)
	if res >= 0 && n.group >= 0 {
		s.groups[2*n.group] = res
	}
	return res
}

func (n *singleNode) hasConsumed(s *State) bool {
	return consumedInput(s, n.consumer)
}

// backRefSingleNode is a singleNode whose find and findBack try matches at
// each position, so the group start is recorded before anything after the
// group runs.
type backRefSingleNode struct {
	singleNode
}

func (n *backRefSingleNode) Kind() Kind { return KindBackRefSingle }

func (n *backRefSingleNode) find(s *State, from int) int {
	return s.scan(n.id, from)
}

func (n *backRefSingleNode) findBack(s *State, from, to int) int {
	return s.scanBack(n.id, from, to)
}

// groupEndNode closes a group: it records the group end and replaces the
// entry position in the consumption slot with the consumed length.
type groupEndNode struct {
	base
	group    int
	consumer int
}

func (n *groupEndNode) Kind() Kind { return KindGroupEnd }

func (n *groupEndNode) hasConsumed(*State) bool { return false }

func (n *groupEndNode) matches(s *State, pos int) int {
	oldEnd := -1
	if n.group >= 0 {
		oldEnd = s.groups[2*n.group+1]
		s.groups[2*n.group+1] = pos
	}
	oldCons := -1
	if n.consumer >= 0 {
		oldCons = s.consumed[n.consumer]
		s.consumed[n.consumer] = pos - oldCons
	}
	if res := s.matchAt(n.next, pos); res >= 0 {
		return res
	}
	if n.group >= 0 {
		s.groups[2*n.group+1] = oldEnd
	}
	if n.consumer >= 0 {
		s.consumed[n.consumer] = oldCons
	}
	return -1
}

// finalNode ends the pattern. It records the end of group 0 and, in
// ModeMatch, accepts only at the right bound.
type finalNode struct {
	base
}

func (n *finalNode) Kind() Kind { return KindFinal }

func (n *finalNode) hasConsumed(*State) bool { return false }

func (n *finalNode) matches(s *State, pos int) int {
	if s.mode == ModeMatch && pos != s.rightBound {
		return -1
	}
	s.groups[1] = pos
	return pos
}

func enterGroup(s *State, group, consumer, pos int) (oldStart, oldCons int) {
	oldStart, oldCons = -1, -1
	if group >= 0 {
		oldStart = s.groups[2*group]
		s.groups[2*group] = pos
	}
	if consumer >= 0 {
		oldCons = s.consumed[consumer]
		s.consumed[consumer] = pos
	}
	return oldStart, oldCons
}

func leaveGroup(s *State, group, consumer, oldStart, oldCons int) {
	if group >= 0 {
		s.groups[2*group] = oldStart
	}
	if consumer >= 0 {
		s.consumed[consumer] = oldCons
	}
}

// consumedInput reports whether the last iteration through a tracked
// group consumed input. An untracked group always counts as consuming.
func consumedInput(s *State, consumer int) bool {
	return consumer < 0 || s.consumed[consumer] != 0
}
