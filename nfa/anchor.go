package nfa

import (
	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/syntax"
)

// anchorNode is a zero-width line or text assertion, or \G.
type anchorNode struct {
	base
	kind      syntax.AssertKind
	multiline bool
	unixLines bool
}

func (n *anchorNode) Kind() Kind { return KindAnchor }

func (n *anchorNode) hasConsumed(*State) bool { return false }

func (n *anchorNode) matches(s *State, pos int) int {
	if !n.holds(s, pos) {
		return -1
	}
	return s.matchAt(n.next, pos)
}

func (n *anchorNode) holds(s *State, pos int) bool {
	switch n.kind {
	case syntax.AssertBeginText:
		return pos == s.anchorLeft()
	case syntax.AssertBeginLine:
		if !n.multiline {
			return pos == s.anchorLeft()
		}
		return n.atLineStart(s, pos)
	case syntax.AssertEndText:
		if pos >= s.rightBound {
			s.hitEnd = true
		}
		return pos == s.anchorRight()
	case syntax.AssertEndTextOptEOL:
		return n.beforeFinalTerminator(s, pos)
	case syntax.AssertEndLine:
		if !n.multiline {
			return n.beforeFinalTerminator(s, pos)
		}
		return n.atLineEnd(s, pos)
	case syntax.AssertPrevMatchEnd:
		return pos == s.prevEnd
	}
	return false
}

// atLineStart implements multiline ^: the start of input, or just after a
// line terminator that is not the last thing in the input. The gap inside
// "\r\n" is not a line start.
func (n *anchorNode) atLineStart(s *State, pos int) bool {
	left := s.anchorLeft()
	if pos == left {
		return true
	}
	if pos < left || pos >= s.anchorRight() {
		if pos >= s.rightBound {
			s.hitEnd = true
		}
		return false
	}
	prev, _ := s.in.StepBack(pos)
	if !input.IsLineTerminator(prev, n.unixLines) {
		return false
	}
	if prev == '\r' && !n.unixLines {
		if r, _ := s.in.Step(pos); r == '\n' {
			return false
		}
	}
	return true
}

// atLineEnd implements multiline $: the end of input, or just before a
// line terminator, except between '\r' and '\n'.
func (n *anchorNode) atLineEnd(s *State, pos int) bool {
	end := s.anchorRight()
	if pos >= end {
		s.hitEnd = true
		s.requireEnd = true
		return pos == end
	}
	r, _ := s.in.Step(pos)
	if !input.IsLineTerminator(r, n.unixLines) {
		return false
	}
	if r == '\n' && !n.unixLines && pos > 0 {
		if prev, _ := s.in.StepBack(pos); prev == '\r' {
			return false
		}
	}
	return true
}

// beforeFinalTerminator implements \Z and non-multiline $: the end of
// input, or before a line terminator (or "\r\n") that ends the input.
func (n *anchorNode) beforeFinalTerminator(s *State, pos int) bool {
	end := s.anchorRight()
	if pos >= end {
		s.hitEnd = true
		s.requireEnd = true
		return pos == end
	}
	r, w := s.in.Step(pos)
	if !input.IsLineTerminator(r, n.unixLines) {
		return false
	}
	switch {
	case pos+w == end:
		// Not between the '\r' and '\n' of a final "\r\n".
		if r == '\n' && !n.unixLines && pos > 0 {
			if prev, _ := s.in.StepBack(pos); prev == '\r' {
				return false
			}
		}
	case r == '\r' && !n.unixLines && pos+2 == end:
		if next, _ := s.in.Step(pos + 1); next != '\n' {
			return false
		}
	default:
		return false
	}
	// One more character could turn the terminator into a line break in
	// the middle of the input.
	s.hitEnd = true
	s.requireEnd = true
	return true
}

// wordBoundaryNode is \b, or \B when negate is set.
type wordBoundaryNode struct {
	base
	negate  bool
	unicode bool
}

func (n *wordBoundaryNode) Kind() Kind { return KindWordBoundary }

func (n *wordBoundaryNode) hasConsumed(*State) bool { return false }

func (n *wordBoundaryNode) matches(s *State, pos int) int {
	left, right := s.lookLeft(), s.lookRight()
	before, after := false, false
	if pos > left {
		r, _ := s.in.StepBack(pos)
		before = n.isWord(r)
	}
	if pos < right {
		r, _ := s.in.Step(pos)
		after = n.isWord(r)
	} else {
		s.hitEnd = true
	}
	if (before != after) == n.negate {
		return -1
	}
	return s.matchAt(n.next, pos)
}

func (n *wordBoundaryNode) isWord(r rune) bool {
	if n.unicode {
		return syntax.IsUnicodeWord(r)
	}
	return syntax.IsASCIIWord(r)
}
