package syntax

import (
	"strconv"
	"strings"
)

// Op is the operator of a Regexp node.
type Op uint8

const (
	OpEmpty     Op = iota + 1 // matches the empty string
	OpLiteral                 // matches Runes
	OpClass                   // matches one code point in Class
	OpAnyChar                 // '.'
	OpAssert                  // zero-width assertion Assert
	OpConcat                  // Sub[0] Sub[1] ...
	OpAlternate               // Sub[0]|Sub[1]|...
	OpCapture                 // capturing group Cap (named Name) around Sub[0]
	OpAtomic                  // (?>Sub[0])
	OpLook                    // lookahead or lookbehind (Behind, Negate) around Sub[0]
	OpRepeat                  // Sub[0]{Min,Max} with Policy
	OpBackref                 // \Cap
)

// AssertKind selects the zero-width assertion of an OpAssert node.
type AssertKind uint8

const (
	AssertBeginLine      AssertKind = iota + 1 // ^
	AssertEndLine                              // $
	AssertBeginText                            // \A
	AssertEndText                              // \z
	AssertEndTextOptEOL                        // \Z
	AssertWordBoundary                         // \b
	AssertNoWordBoundary                       // \B
	AssertPrevMatchEnd                         // \G
)

// Policy is the backtracking behavior of a quantifier.
type Policy uint8

const (
	Greedy Policy = iota
	Reluctant
	Possessive
)

// Inf is the Max of an unbounded repetition.
const Inf = -1

// Regexp is a node of a parsed pattern.
type Regexp struct {
	Op     Op
	Flags  Flags // flags in effect where the node was parsed
	Runes  []rune
	Class  *Class
	Assert AssertKind
	Sub    []*Regexp
	Min    int
	Max    int // Inf for unbounded
	Policy Policy
	Cap    int
	Name   string
	Behind bool
	Negate bool
	Pos    int // code point offset in the pattern
}

// FoldCase reports whether literals and classes of re match case-insensitively.
func (re *Regexp) FoldCase() bool {
	return re.Flags&CaseInsensitive != 0
}

// UnicodeFold reports whether case folding follows Unicode rather than ASCII.
func (re *Regexp) UnicodeFold() bool {
	return re.Flags&(UnicodeCase|UnicodeCharacterClass) != 0
}

// MaxCap returns the highest capture group index in re.
func (re *Regexp) MaxCap() int {
	m := 0
	re.Walk(func(n *Regexp) {
		if n.Op == OpCapture && n.Cap > m {
			m = n.Cap
		}
	})
	return m
}

// CapNames returns the names of the capture groups, indexed by group
// number. Unnamed groups (and group 0) have name "".
func (re *Regexp) CapNames() []string {
	names := make([]string, re.MaxCap()+1)
	re.Walk(func(n *Regexp) {
		if n.Op == OpCapture {
			names[n.Cap] = n.Name
		}
	})
	return names
}

// Walk calls fn for re and every node below it, parents first.
func (re *Regexp) Walk(fn func(*Regexp)) {
	fn(re)
	for _, sub := range re.Sub {
		sub.Walk(fn)
	}
}

// String returns a debugging rendering of the tree.
func (re *Regexp) String() string {
	var sb strings.Builder
	re.dump(&sb)
	return sb.String()
}

var opNames = map[Op]string{
	OpEmpty: "empty", OpLiteral: "lit", OpClass: "class", OpAnyChar: "any",
	OpAssert: "assert", OpConcat: "cat", OpAlternate: "alt", OpCapture: "cap",
	OpAtomic: "atomic", OpLook: "look", OpRepeat: "rep", OpBackref: "ref",
}

func (re *Regexp) dump(sb *strings.Builder) {
	sb.WriteString(opNames[re.Op])
	switch re.Op {
	case OpLiteral:
		sb.WriteByte('{')
		sb.WriteString(string(re.Runes))
		sb.WriteByte('}')
		return
	case OpAssert:
		sb.WriteByte('{')
		sb.WriteString(strconv.Itoa(int(re.Assert)))
		sb.WriteByte('}')
		return
	case OpBackref, OpCapture:
		sb.WriteString(strconv.Itoa(re.Cap))
	case OpRepeat:
		sb.WriteString(strconv.Itoa(re.Min))
		sb.WriteByte(',')
		if re.Max != Inf {
			sb.WriteString(strconv.Itoa(re.Max))
		}
		sb.WriteString([]string{"", "?", "+"}[re.Policy])
	case OpLook:
		if re.Behind {
			sb.WriteByte('<')
		}
		if re.Negate {
			sb.WriteByte('!')
		} else {
			sb.WriteByte('=')
		}
	}
	if len(re.Sub) == 0 {
		return
	}
	sb.WriteByte('{')
	for i, sub := range re.Sub {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sub.dump(sb)
	}
	sb.WriteByte('}')
}
