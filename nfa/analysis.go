package nfa

import (
	"slices"

	"github.com/coregx/btregex/internal/conv"
	"github.com/coregx/btregex/internal/sparse"
	"github.com/coregx/btregex/syntax"
)

// maxWidth caps computed widths so nested counted repeats cannot
// overflow.
const maxWidth = 1 << 30

// widthBounds returns the minimum and maximum number of code points re can
// match. The maximum is -1 when unbounded.
func widthBounds(re *syntax.Regexp) (lo, hi int) {
	switch re.Op {
	case syntax.OpEmpty, syntax.OpAssert, syntax.OpLook:
		return 0, 0
	case syntax.OpLiteral:
		return len(re.Runes), len(re.Runes)
	case syntax.OpClass, syntax.OpAnyChar:
		return 1, 1
	case syntax.OpBackref:
		return 0, -1
	case syntax.OpCapture, syntax.OpAtomic:
		return widthBounds(re.Sub[0])
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			l, h := widthBounds(sub)
			lo = min(lo+l, maxWidth)
			if hi >= 0 {
				if h < 0 {
					hi = -1
				} else {
					hi = min(hi+h, maxWidth)
				}
			}
		}
		return lo, hi
	case syntax.OpAlternate:
		for i, sub := range re.Sub {
			l, h := widthBounds(sub)
			if i == 0 {
				lo, hi = l, h
				continue
			}
			lo = min(lo, l)
			if hi >= 0 && (h < 0 || h > hi) {
				hi = h
			}
		}
		return lo, hi
	case syntax.OpRepeat:
		l, h := widthBounds(re.Sub[0])
		lo = min(l*re.Min, maxWidth)
		switch {
		case h == 0:
			hi = 0
		case h < 0 || re.Max == syntax.Inf:
			hi = -1
		default:
			hi = min(h*re.Max, maxWidth)
		}
		return lo, hi
	}
	return 0, -1
}

// captures lists the capture groups inside re.
func captures(re *syntax.Regexp) []int {
	var gs []int
	re.Walk(func(n *syntax.Regexp) {
		if n.Op == syntax.OpCapture {
			gs = append(gs, n.Cap)
		}
	})
	return gs
}

// backrefGroups marks every group that some back-reference names.
func backrefGroups(re *syntax.Regexp, ncap int) []bool {
	refs := make([]bool, ncap+1)
	re.Walk(func(n *syntax.Regexp) {
		if n.Op == syntax.OpBackref && n.Cap <= ncap {
			refs[n.Cap] = true
		}
	})
	return refs
}

// isAnchored reports whether every match of re must start at the left
// anchoring edge.
func isAnchored(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpAssert:
		return re.Assert == syntax.AssertBeginText ||
			re.Assert == syntax.AssertBeginLine && re.Flags&syntax.Multiline == 0
	case syntax.OpConcat:
		return len(re.Sub) > 0 && isAnchored(re.Sub[0])
	case syntax.OpCapture, syntax.OpAtomic:
		return isAnchored(re.Sub[0])
	case syntax.OpRepeat:
		return re.Min > 0 && isAnchored(re.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			if !isAnchored(sub) {
				return false
			}
		}
		return len(re.Sub) > 0
	}
	return false
}

// substituteBackRefSingles replaces every singleNode whose find or
// findBack can be reached by delegation, and whose group is
// back-referenced, with a backRefSingleNode.
//
// Delegated searches start at the program entry, at every lookbehind body
// (searched with findBack) and continue through singleNode bodies, empty
// nodes and the successors of dotStar nodes. Replacement is conservative:
// it happens whether or not the reference is actually reached from the
// group's continuation.
func (p *Program) substituteBackRefSingles() {
	if !slices.Contains(p.refs, true) {
		return
	}
	visited := sparse.New(conv.IntToUint32(len(p.nodes)))
	stack := []NodeID{p.start}
	for _, n := range p.nodes {
		if lb, ok := n.(*lookbehindNode); ok {
			stack = append(stack, lb.body)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Visit(uint32(id)) {
			continue
		}

		switch n := p.nodes[id].(type) {
		case *singleNode:
			if n.group >= 0 && p.refs[n.group] {
				p.nodes[id] = &backRefSingleNode{singleNode: *n}
				continue
			}
			stack = append(stack, n.kid)
		case *emptyNode:
			stack = append(stack, n.next)
		case *dotStarNode:
			stack = append(stack, n.next)
		}
	}
}
