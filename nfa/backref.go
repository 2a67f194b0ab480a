package nfa

import "github.com/coregx/btregex/syntax"

// backrefNode matches the text most recently captured by group.
//
// A group that has not participated (or is still open, as in (a\1))
// makes the reference fail, unless emptyUnset is set, in which case it
// matches the empty string.
type backrefNode struct {
	base
	group      int
	fold       bool
	unicode    bool
	emptyUnset bool
}

func (n *backrefNode) Kind() Kind { return KindBackref }

// span returns the captured span of the referenced group.
func (n *backrefNode) span(s *State) (start, end int, ok bool) {
	start, end = s.groups[2*n.group], s.groups[2*n.group+1]
	if start < 0 || end < start {
		return 0, 0, false
	}
	return start, end, true
}

func (n *backrefNode) matches(s *State, pos int) int {
	start, end, ok := n.span(s)
	if !ok {
		if n.emptyUnset {
			return s.matchAt(n.next, pos)
		}
		return -1
	}
	w := n.width(s, start, end, pos)
	if w < 0 {
		return -1
	}
	return s.matchAt(n.next, pos+w)
}

// width returns how many units at pos match the captured text [start, end).
func (n *backrefNode) width(s *State, start, end, pos int) int {
	if !n.fold {
		l := end - start
		if pos+l > s.rightBound {
			s.hitEnd = true
			return -1
		}
		if !s.in.EqualSpan(start, pos, l) {
			return -1
		}
		return l
	}
	p := pos
	for i := start; i < end; {
		want, wi := s.in.Step(i)
		r, w := s.step(p)
		if w == 0 || !syntax.EqualFold(want, r, n.unicode) {
			return -1
		}
		i += wi
		p += w
	}
	return p - pos
}

// find searches for the captured text directly when the group is set and
// matching is exact; otherwise it falls back to scanning.
func (n *backrefNode) find(s *State, from int) int {
	start, end, ok := n.span(s)
	if !ok || n.fold || start == end {
		return s.scan(n.id, from)
	}
	l := end - start
	for {
		p := s.in.IndexSpan(start, end, from, s.rightBound)
		if p < 0 {
			s.hitEnd = true
			return -1
		}
		if s.matchAt(n.next, p+l) >= 0 {
			return p
		}
		from = p + 1
	}
}

func (n *backrefNode) findBack(s *State, from, to int) int {
	start, end, ok := n.span(s)
	if !ok || n.fold || start == end {
		return s.scanBack(n.id, from, to)
	}
	l := end - start
	for to >= from {
		p := s.in.LastIndexSpan(start, end, from, min(to+l, s.rightBound))
		if p < 0 {
			return -1
		}
		if s.matchAt(n.next, p+l) >= 0 {
			return p
		}
		to = p - 1
	}
	return -1
}
