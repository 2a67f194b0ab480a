// Package input abstracts the text a pattern is matched against.
//
// Positions are offsets in code units: bytes for UTF-8 inputs and 16-bit
// units for UTF-16 inputs. A code point never splits across positions the
// matcher stops at: a UTF-16 surrogate pair and a multi-byte UTF-8 sequence
// are always stepped over as a whole (see Boundary).
package input

import "unicode/utf8"

// Input is an indexable sequence of code units.
//
// Step and StepBack decode the code point that starts at (or ends at) a
// position and return its width in units. At the edges of the input they
// return width 0.
type Input interface {
	// Len returns the number of code units.
	Len() int

	// Step decodes the code point starting at i.
	Step(i int) (r rune, width int)

	// StepBack decodes the code point ending at i.
	StepBack(i int) (r rune, width int)

	// Boundary reports whether i is a code point boundary. Positions 0 and
	// Len() are always boundaries.
	Boundary(i int) bool

	// EqualSpan reports whether the n units at a equal the n units at b.
	EqualSpan(a, b, n int) bool

	// Index returns the first p in [from, to-len] where lit occurs, or -1.
	Index(lit *Literal, from, to int) int

	// LastIndex returns the last p in [from, to-len] where lit occurs, or -1.
	LastIndex(lit *Literal, from, to int) int

	// IndexSpan is Index for the input's own units [s, e).
	IndexSpan(s, e, from, to int) int

	// LastIndexSpan is LastIndex for the input's own units [s, e).
	LastIndexSpan(s, e, from, to int) int

	// Units returns the length of lit in this input's code units.
	Units(lit *Literal) int

	// Slice returns units [s, e) as a Go string.
	Slice(s, e int) string

	// Bytes returns the underlying UTF-8 bytes, if this is a UTF-8 input.
	// The returned slice must not be modified.
	Bytes() ([]byte, bool)
}

// Literal is a literal code point sequence pre-encoded for every input
// encoding, so searching for it never allocates.
type Literal struct {
	Runes []rune
	UTF8  []byte
	UTF16 []uint16
}

// NewLiteral encodes runes for use with Input.Index and Input.LastIndex.
// The runes must be Searchable.
func NewLiteral(runes []rune) *Literal {
	lit := &Literal{Runes: runes}
	for _, r := range runes {
		lit.UTF8 = utf8.AppendRune(lit.UTF8, r)
		lit.UTF16 = appendUTF16(lit.UTF16, r)
	}
	return lit
}

// Searchable reports whether runes can be found by encoded search. A
// surrogate has no UTF-8 or UTF-16 encoding of its own, and U+FFFD is also
// what every invalid byte decodes to, so literals holding either must be
// matched one decoded code point at a time.
func Searchable(runes []rune) bool {
	for _, r := range runes {
		if r == utf8.RuneError || !utf8.ValidRune(r) {
			return false
		}
	}
	return true
}

// String returns the literal text.
func (l *Literal) String() string {
	return string(l.UTF8)
}

// IsLineTerminator reports whether r ends a line. With unixLines only '\n'
// does.
func IsLineTerminator(r rune, unixLines bool) bool {
	if unixLines {
		return r == '\n'
	}
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
