package nfa

import (
	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/syntax"
)

// charNode matches one exact code point. Its find and findBack search for
// the encoded code point directly when it has an encoding; otherwise they
// scan.
type charNode struct {
	base
	r   rune
	lit *input.Literal
}

func newCharNode(r rune) *charNode {
	n := &charNode{r: r}
	if rs := []rune{r}; input.Searchable(rs) {
		n.lit = input.NewLiteral(rs)
	}
	return n
}

func (n *charNode) Kind() Kind { return KindChar }

func (n *charNode) accepts(s *State, pos int) int {
	r, w := s.step(pos)
	if w == 0 || r != n.r {
		return -1
	}
	return w
}

func (n *charNode) matches(s *State, pos int) int {
	return matchLeaf(s, n, pos)
}

func (n *charNode) find(s *State, from int) int {
	if n.lit == nil {
		return n.base.find(s, from)
	}
	return findLiteral(s, n.lit, n.next, from)
}

func (n *charNode) findBack(s *State, from, to int) int {
	if n.lit == nil {
		return n.base.findBack(s, from, to)
	}
	return findLiteralBack(s, n.lit, n.next, from, to)
}

// foldCharNode matches one code point case-insensitively.
type foldCharNode struct {
	base
	r       rune
	unicode bool
}

func (n *foldCharNode) Kind() Kind { return KindFoldChar }

func (n *foldCharNode) accepts(s *State, pos int) int {
	r, w := s.step(pos)
	if w == 0 || !syntax.EqualFold(n.r, r, n.unicode) {
		return -1
	}
	return w
}

func (n *foldCharNode) matches(s *State, pos int) int {
	return matchLeaf(s, n, pos)
}

// classNode matches one code point from a character class.
type classNode struct {
	base
	cls     *syntax.Class
	fold    bool
	unicode bool
}

func (n *classNode) Kind() Kind { return KindClass }

func (n *classNode) accepts(s *State, pos int) int {
	r, w := s.step(pos)
	if w == 0 {
		return -1
	}
	if n.fold {
		if !n.cls.ContainsFold(r, n.unicode) {
			return -1
		}
	} else if !n.cls.Contains(r) {
		return -1
	}
	return w
}

func (n *classNode) matches(s *State, pos int) int {
	return matchLeaf(s, n, pos)
}

// anyNode matches '.': any code point, excluding line terminators unless
// dotAll is set.
type anyNode struct {
	base
	dotAll    bool
	unixLines bool
}

func (n *anyNode) Kind() Kind { return KindAny }

func (n *anyNode) accepts(s *State, pos int) int {
	r, w := s.step(pos)
	if w == 0 || !n.dotAll && input.IsLineTerminator(r, n.unixLines) {
		return -1
	}
	return w
}

func (n *anyNode) matches(s *State, pos int) int {
	return matchLeaf(s, n, pos)
}

// seqNode matches a literal of two or more code points exactly.
type seqNode struct {
	base
	lit *input.Literal
}

func (n *seqNode) Kind() Kind { return KindSequence }

func (n *seqNode) matches(s *State, pos int) int {
	units := s.in.Units(n.lit)
	if pos+units > s.rightBound {
		s.hitEnd = true
		return -1
	}
	if s.in.Index(n.lit, pos, pos+units) != pos {
		return -1
	}
	return s.matchAt(n.next, pos+units)
}

func (n *seqNode) find(s *State, from int) int {
	return findLiteral(s, n.lit, n.next, from)
}

func (n *seqNode) findBack(s *State, from, to int) int {
	return findLiteralBack(s, n.lit, n.next, from, to)
}

// foldSeqNode matches a literal case-insensitively, one code point at a
// time, since folded forms may differ in encoded width.
type foldSeqNode struct {
	base
	runes   []rune
	unicode bool
}

func (n *foldSeqNode) Kind() Kind { return KindFoldSequence }

func (n *foldSeqNode) matches(s *State, pos int) int {
	p := pos
	for _, want := range n.runes {
		r, w := s.step(p)
		if w == 0 || !syntax.EqualFold(want, r, n.unicode) {
			return -1
		}
		p += w
	}
	return s.matchAt(n.next, p)
}

// emptyNode matches the empty string. Since it matches exactly where its
// successor does, find and findBack are delegated.
type emptyNode struct {
	base
}

func (n *emptyNode) Kind() Kind { return KindEmpty }

func (n *emptyNode) matches(s *State, pos int) int {
	return s.matchAt(n.next, pos)
}

func (n *emptyNode) find(s *State, from int) int {
	return s.nodes[n.next].find(s, from)
}

func (n *emptyNode) findBack(s *State, from, to int) int {
	return s.nodes[n.next].findBack(s, from, to)
}

func (n *emptyNode) hasConsumed(*State) bool { return false }

// findLiteral returns the first occurrence p >= from of lit, inside the
// right bound, after which next matches.
func findLiteral(s *State, lit *input.Literal, next NodeID, from int) int {
	units := s.in.Units(lit)
	for {
		p := s.in.Index(lit, from, s.rightBound)
		if p < 0 {
			s.hitEnd = true
			return -1
		}
		if s.matchAt(next, p+units) >= 0 {
			return p
		}
		from = p + 1
	}
}

// findLiteralBack returns the last occurrence p in [from, to] of lit after
// which next matches.
func findLiteralBack(s *State, lit *input.Literal, next NodeID, from, to int) int {
	units := s.in.Units(lit)
	for to >= from {
		p := s.in.LastIndex(lit, from, min(to+units, s.rightBound))
		if p < 0 {
			return -1
		}
		if s.matchAt(next, p+units) >= 0 {
			return p
		}
		to = p - 1
	}
	return -1
}
