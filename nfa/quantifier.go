package nfa

import (
	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/syntax"
)

// leafRepeatNode repeats a single-code-point node. The leaf is driven
// through accepts, so a repeat over n code points uses one stack frame
// per backtracking step rather than one per iteration.
type leafRepeatNode struct {
	base
	item   NodeID
	inner  leaf
	min    int
	max    int // syntax.Inf for unbounded
	policy syntax.Policy
}

func (n *leafRepeatNode) Kind() Kind { return KindLeafRepeat }

func (n *leafRepeatNode) matches(s *State, pos int) int {
	p := pos
	for i := 0; i < n.min; i++ {
		w := n.inner.accepts(s, p)
		if w < 0 {
			return -1
		}
		p += w
	}
	switch n.policy {
	case syntax.Reluctant:
		return n.reluctant(s, p)
	case syntax.Possessive:
		return s.matchAt(n.next, n.extend(s, p))
	}
	return n.greedy(s, p)
}

// extend consumes as many further code points as the maximum allows and
// returns the resulting position.
func (n *leafRepeatNode) extend(s *State, p int) int {
	for count := n.min; n.max == syntax.Inf || count < n.max; count++ {
		w := n.inner.accepts(s, p)
		if w < 0 {
			break
		}
		p += w
	}
	return p
}

// greedy consumes as much as possible, then backs off one code point at a
// time. Every accepted code point had exactly the width StepBack reports.
func (n *leafRepeatNode) greedy(s *State, start int) int {
	p := n.extend(s, start)
	for {
		if res := s.matchAt(n.next, p); res >= 0 {
			return res
		}
		if p <= start {
			return -1
		}
		_, w := s.in.StepBack(p)
		p -= w
	}
}

func (n *leafRepeatNode) reluctant(s *State, p int) int {
	for count := n.min; ; count++ {
		if res := s.matchAt(n.next, p); res >= 0 {
			return res
		}
		if n.max != syntax.Inf && count >= n.max {
			return -1
		}
		w := n.inner.accepts(s, p)
		if w < 0 {
			return -1
		}
		p += w
	}
}

// dotStarNode is a greedy, unbounded repeat of '.'. Its find exploits the
// fact that the repeat can only span one line (or the whole input when
// dotAll is set): for each line it asks the successor for the last
// position in that line where it matches.
type dotStarNode struct {
	leafRepeatNode
	dotAll    bool
	unixLines bool
}

func (n *dotStarNode) Kind() Kind { return KindDotStar }

func (n *dotStarNode) find(s *State, from int) int {
	next := s.nodes[n.next]
	p := from
	for p < s.rightBound && !s.in.Boundary(p) {
		p++
	}
	for p <= s.rightBound {
		end := n.lineEnd(s, p)
		if end == s.rightBound {
			// The repeat itself would have run into the bound.
			s.hitEnd = true
		}
		if next.findBack(s, p, end) >= 0 {
			return p
		}
		if end >= s.rightBound {
			break
		}
		_, w := s.in.Step(end)
		p = end + w
	}
	return -1
}

// lineEnd returns the position of the first line terminator at or after
// p, or the right bound.
func (n *dotStarNode) lineEnd(s *State, p int) int {
	if n.dotAll {
		return s.rightBound
	}
	for p < s.rightBound {
		r, w := s.in.Step(p)
		if input.IsLineTerminator(r, n.unixLines) {
			return p
		}
		p += w
	}
	return s.rightBound
}

// loopEntryNode starts a composite loop: it zeroes the iteration counter
// and marks the body as not yet run, then restores both on the way out so
// an enclosing loop can re-enter.
type loopEntryNode struct {
	base
	loop         NodeID
	counter      int
	bodyConsumer int
}

func (n *loopEntryNode) Kind() Kind { return KindLoopEntry }

func (n *loopEntryNode) matches(s *State, pos int) int {
	oldCount := s.counters[n.counter]
	oldCons := -1
	if n.bodyConsumer >= 0 {
		oldCons = s.consumed[n.bodyConsumer]
		s.consumed[n.bodyConsumer] = -1
	}
	s.counters[n.counter] = 0
	res := s.matchAt(n.loop, pos)
	s.counters[n.counter] = oldCount
	if n.bodyConsumer >= 0 {
		s.consumed[n.bodyConsumer] = oldCons
	}
	return res
}

// loopNode repeats a composite body. The body's continuation leads back
// here, so each visit is one iteration boundary. Iteration stops as soon
// as an iteration consumes nothing.
type loopNode struct {
	base
	body    NodeID
	min     int
	max     int // syntax.Inf for unbounded
	greedy  bool
	counter int
}

func (n *loopNode) Kind() Kind { return KindLoop }

func (n *loopNode) matches(s *State, pos int) int {
	if !s.nodes[n.body].hasConsumed(s) {
		return s.matchAt(n.next, pos)
	}
	c := s.counters[n.counter]
	more := n.max == syntax.Inf || c < n.max
	if n.greedy {
		if more {
			s.counters[n.counter] = c + 1
			if res := s.matchAt(n.body, pos); res >= 0 {
				return res
			}
			s.counters[n.counter] = c
		}
		if c < n.min {
			return -1
		}
		return s.matchAt(n.next, pos)
	}
	if c >= n.min {
		if res := s.matchAt(n.next, pos); res >= 0 {
			return res
		}
	}
	if !more {
		return -1
	}
	s.counters[n.counter] = c + 1
	res := s.matchAt(n.body, pos)
	s.counters[n.counter] = c
	return res
}
