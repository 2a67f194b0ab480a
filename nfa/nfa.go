// Package nfa compiles parsed patterns into a graph of matching nodes and
// runs the graph with a recursive backtracking matcher.
//
// Every node answers four questions about a position in the input:
//
//   - matches: does the rest of the pattern, starting at this node, match
//     at pos? The result is the end of the overall match or -1.
//   - find: what is the first position at or after from where matches
//     succeeds?
//   - findBack: what is the last position in [from, to] where matches
//     succeeds?
//   - hasConsumed: did the most recent pass through this node consume
//     input? Loops use it to stop iterating on empty bodies.
//
// Nodes are continuation-passing: a node that succeeds calls its successor
// and returns whatever the successor returns. When a call returns -1 the
// node has restored every capture, counter and consumption slot it
// changed, so the caller can try its next alternative against unchanged
// state.
//
// Nodes live in an arena owned by a Program and reference each other by
// NodeID. A Program is immutable once compiled and safe to share; all
// per-match data lives in a State.
package nfa

import (
	"fmt"
	"strings"

	"github.com/coregx/btregex/syntax"
)

// NodeID uniquely identifies a node in the graph
type NodeID uint32

// InvalidNode represents an invalid/uninitialized node ID
const InvalidNode NodeID = 0xFFFFFFFF

// Kind identifies the type of a node
type Kind uint8

const (
	// KindChar matches one exact code point
	KindChar Kind = iota

	// KindFoldChar matches one code point case-insensitively
	KindFoldChar

	// KindClass matches one code point from a character class
	KindClass

	// KindAny matches '.'
	KindAny

	// KindSequence matches an exact literal of several code points
	KindSequence

	// KindFoldSequence matches a literal case-insensitively
	KindFoldSequence

	// KindEmpty matches the empty string
	KindEmpty

	// KindAnchor is a line or text anchor, or \G
	KindAnchor

	// KindWordBoundary is \b or \B
	KindWordBoundary

	// KindBackref matches the text of an earlier group
	KindBackref

	// KindLeafRepeat repeats a single-code-point node without recursion
	KindLeafRepeat

	// KindDotStar is a greedy unbounded '.' repeat with a line-aware find
	KindDotStar

	// KindLoopEntry resets loop bookkeeping before the first iteration
	KindLoopEntry

	// KindLoop repeats a composite body with min/max counting
	KindLoop

	// KindJoint tries alternatives in order, optionally capturing
	KindJoint

	// KindSingle is a single-branch capturing group
	KindSingle

	// KindBackRefSingle is a KindSingle whose find never delegates
	KindBackRefSingle

	// KindGroupEnd closes a group and records consumption
	KindGroupEnd

	// KindFinal ends the pattern and records the match end
	KindFinal

	// KindAtomic commits to the first successful path of its body
	KindAtomic

	// KindLookahead is a positive or negative lookahead
	KindLookahead

	// KindLookbehind is a positive or negative lookbehind
	KindLookbehind

	// KindReturn ends an atomic or lookahead body
	KindReturn

	// KindBehindEnd ends a lookbehind body
	KindBehindEnd

	// kindPlaceholder is a reserved slot not yet filled by the compiler
	kindPlaceholder
)

var kindNames = [...]string{
	KindChar:          "Char",
	KindFoldChar:      "FoldChar",
	KindClass:         "Class",
	KindAny:           "Any",
	KindSequence:      "Sequence",
	KindFoldSequence:  "FoldSequence",
	KindEmpty:         "Empty",
	KindAnchor:        "Anchor",
	KindWordBoundary:  "WordBoundary",
	KindBackref:       "Backref",
	KindLeafRepeat:    "LeafRepeat",
	KindDotStar:       "DotStar",
	KindLoopEntry:     "LoopEntry",
	KindLoop:          "Loop",
	KindJoint:         "Joint",
	KindSingle:        "Single",
	KindBackRefSingle: "BackRefSingle",
	KindGroupEnd:      "GroupEnd",
	KindFinal:         "Final",
	KindAtomic:        "Atomic",
	KindLookahead:     "Lookahead",
	KindLookbehind:    "Lookbehind",
	KindReturn:        "Return",
	KindBehindEnd:     "BehindEnd",
	kindPlaceholder:   "Placeholder",
}

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Program is a compiled pattern: the node arena plus the sizes of the
// per-match tables a State needs.
type Program struct {
	nodes     []Node
	start     NodeID
	groups    int // including group 0
	consumers int
	counters  int
	names     []string
	refs      []bool // refs[g] is true when group g is back-referenced
	anchored  bool
	flags     syntax.Flags
	pattern   string
}

// Start returns the entry node; it is group 0 and spans the whole match.
func (p *Program) Start() NodeID {
	return p.start
}

// Len returns the number of nodes
func (p *Program) Len() int {
	return len(p.nodes)
}

// Node returns the node with the given ID, or nil if out of range
func (p *Program) Node(id NodeID) Node {
	if int(id) >= len(p.nodes) {
		return nil
	}
	return p.nodes[id]
}

// NumGroups returns the number of capture groups including group 0
func (p *Program) NumGroups() int {
	return p.groups
}

// GroupNames returns the group names indexed by group number; unnamed
// groups have "". The slice must not be modified.
func (p *Program) GroupNames() []string {
	return p.names
}

// Anchored reports whether every match must begin where the search begins
// (the pattern starts with \A, or with ^ outside multiline mode).
func (p *Program) Anchored() bool {
	return p.anchored
}

// Flags returns the flags the pattern was compiled with
func (p *Program) Flags() syntax.Flags {
	return p.flags
}

// Pattern returns the source pattern
func (p *Program) Pattern() string {
	return p.pattern
}

// String dumps the node graph, one node per line.
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Program{start=%d groups=%d consumers=%d counters=%d}\n",
		p.start, p.groups, p.consumers, p.counters)
	for i, n := range p.nodes {
		fmt.Fprintf(&sb, "  %3d: %s", i, n.Kind())
		if next := n.Next(); next != InvalidNode {
			fmt.Fprintf(&sb, " -> %d", next)
		}
		if out := successors(n); len(out) > 0 {
			fmt.Fprintf(&sb, " %v", out)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
