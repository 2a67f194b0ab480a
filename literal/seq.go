// Package literal extracts the literal prefixes every match of a pattern
// must begin with.
//
// A prefilter uses them to skip input where no match can start: for
// /(?:foo|bar)\d+/ only positions where "foo" or "bar" begins are worth
// handing to the backtracking matcher.
//
// Key concepts:
//   - A Literal is a UTF-8 byte sequence a match may start with
//   - A Seq is a set of alternative literals, or the infinite set when
//     nothing useful is known
//   - Complete literals cover a whole sub-pattern and may be extended by
//     whatever follows it
package literal

import (
	"bytes"
	"fmt"
	"slices"
)

// Literal is a byte sequence a match may start with. Complete reports that
// the literal spans the entire sub-pattern it was extracted from, so a
// concatenation may append the prefixes of the next element to it.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello\d/ → Literal{[]byte("hello"), false}
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a Literal from b.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging representation: "literal{bytes, complete=...}".
func (l Literal) String() string {
	return fmt.Sprintf("literal{%s, complete=%v}", l.Bytes, l.Complete)
}

// Seq is a set of alternative literals. The zero value is the empty, finite
// set: no match is possible at all. An infinite Seq stands for "any
// position may start a match".
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
	infinite bool
}

// NewSeq creates a finite sequence of the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Infinite returns the sequence that matches everywhere.
func Infinite() *Seq {
	return &Seq{infinite: true}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i. It panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Literals returns the literals of the sequence. The slice is shared.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// IsEmpty reports whether the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// IsFinite reports whether the sequence is a known, finite set.
func (s *Seq) IsFinite() bool {
	return s != nil && !s.infinite
}

// IsExact reports whether every literal in the sequence is complete.
func (s *Seq) IsExact() bool {
	if !s.IsFinite() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// ContainsEmpty reports whether some literal is empty. Such a sequence
// places no constraint on where a match may start.
func (s *Seq) ContainsEmpty() bool {
	for _, lit := range s.Literals() {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal, or 0 for an empty or
// infinite sequence.
func (s *Seq) MinLen() int {
	if !s.IsFinite() || s.IsEmpty() {
		return 0
	}
	m := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		m = min(m, len(lit.Bytes))
	}
	return m
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{
			Bytes:    bytes.Clone(lit.Bytes),
			Complete: lit.Complete,
		}
	}
	return &Seq{literals: cloned, infinite: s.infinite}
}

// MakeInexact marks every literal as incomplete, so nothing is appended to
// them.
func (s *Seq) MakeInexact() {
	for i := range s.Literals() {
		s.literals[i].Complete = false
	}
}

// Union appends the literals of o. The union with an infinite sequence is
// infinite.
func (s *Seq) Union(o *Seq) {
	if !o.IsFinite() {
		s.literals, s.infinite = nil, true
		return
	}
	if s.infinite {
		return
	}
	s.literals = append(s.literals, o.literals...)
}

// Cross replaces every complete literal L of s with L+M for each literal M
// of o. The result is complete when both parts are. Incomplete literals of s
// are kept as they are. Cross reports false, leaving s unchanged, when the
// product would exceed maxLiterals literals.
func (s *Seq) Cross(o *Seq, maxLiterals int) bool {
	if !s.IsFinite() || !o.IsFinite() {
		return false
	}
	n := 0
	for _, lit := range s.literals {
		if lit.Complete {
			n += len(o.literals)
		} else {
			n++
		}
	}
	if n > maxLiterals {
		return false
	}
	out := make([]Literal, 0, n)
	for _, lit := range s.literals {
		if !lit.Complete {
			out = append(out, lit)
			continue
		}
		for _, m := range o.literals {
			b := make([]byte, 0, len(lit.Bytes)+len(m.Bytes))
			b = append(append(b, lit.Bytes...), m.Bytes...)
			out = append(out, Literal{Bytes: b, Complete: m.Complete})
		}
	}
	s.literals = out
	return true
}

// KeepFirst truncates every literal longer than n bytes to its first n
// bytes. Truncated literals become incomplete.
func (s *Seq) KeepFirst(n int) {
	for i := range s.Literals() {
		if len(s.literals[i].Bytes) > n {
			s.literals[i].Bytes = s.literals[i].Bytes[:n]
			s.literals[i].Complete = false
		}
	}
}

// Minimize removes redundant literals.
//
// For prefix matching, a literal L is redundant if a shorter literal S in
// the set is a prefix of L: every position where L begins is also a
// position where S begins. Duplicates are removed the same way.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return len(a.Bytes) - len(b.Bytes)
	})
	kept := make([]Literal, 0, len(s.literals))
	for _, cur := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(cur.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, cur)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals,
// or an empty slice when there is none.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	fmt.Println(string(seq.LongestCommonPrefix())) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		prefix = commonPrefix(prefix, lit.Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}
	return bytes.Clone(prefix)
}

// String returns a debugging representation of the sequence.
func (s *Seq) String() string {
	if !s.IsFinite() {
		return "seq{inf}"
	}
	parts := make([]string, len(s.literals))
	for i, lit := range s.literals {
		if lit.Complete {
			parts[i] = fmt.Sprintf("E(%q)", lit.Bytes)
		} else {
			parts[i] = fmt.Sprintf("I(%q)", lit.Bytes)
		}
	}
	return fmt.Sprintf("seq%v", parts)
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
