// Package prefilter provides fast candidate filtering for regex search using
// extracted literal prefixes.
//
// A prefilter is used to quickly reject positions in the haystack where no
// match can start. The backtracking matcher then runs only at the
// positions the prefilter reports.
//
// The package selects a strategy from the prefix set:
//   - Single byte → Memchr
//   - Two single bytes → Memchr2 (e.g. /(?i)x/)
//   - Single substring → Memmem
//   - Anything else → Aho-Corasick automaton
//
// Example usage:
//
//	re, _ := syntax.Parse("(?:hello|world)\\d", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find([]byte("foo hello1 bar"), 0)
//	// pos == 4
package prefilter

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/btregex/literal"
	"github.com/coregx/btregex/simd"
)

// Prefilter finds candidate match starts in a UTF-8 haystack.
type Prefilter interface {
	// Find returns the first position >= start where one of the prefilter
	// literals begins, or -1 if there is none. Every match of the pattern
	// starting at or after start begins at a position Find can return.
	Find(haystack []byte, start int) int

	// IsComplete reports whether the literals are the entire pattern, so
	// that a candidate is always a match.
	IsComplete() bool

	// HeapBytes returns the heap memory held by the prefilter.
	HeapBytes() int

	fmt.Stringer
}

// Builder constructs the prefilter for a prefix set.
type Builder struct {
	prefixes *literal.Seq
	minLen   int
}

// NewBuilder creates a builder for prefixes, normally the result of
// literal.Extractor.ExtractPrefixes.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes, minLen: 1}
}

// WithMinLen rejects prefix sets whose shortest literal is shorter than n
// bytes.
func (b *Builder) WithMinLen(n int) *Builder {
	b.minLen = max(n, 1)
	return b
}

// Build returns the best prefilter for the prefix set, or nil when the set
// does not constrain match starts: it is infinite, empty, contains the
// empty literal, or has a literal shorter than the minimum length.
func (b *Builder) Build() Prefilter {
	seq := b.prefixes
	if !seq.IsFinite() || seq.IsEmpty() || seq.ContainsEmpty() || seq.MinLen() < b.minLen {
		return nil
	}
	complete := seq.IsExact()

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], complete)
		}
		return newMemmemPrefilter(lit.Bytes, complete)
	}

	if seq.Len() == 2 && seq.Get(0).Len() == 1 && seq.Get(1).Len() == 1 {
		return newMemchr2Prefilter(seq.Get(0).Bytes[0], seq.Get(1).Bytes[0], complete)
	}

	pf, err := newAhoCorasickPrefilter(seq, complete)
	if err != nil {
		return nil
	}
	return pf
}

// memchrPrefilter wraps simd.Memchr as a Prefilter.
//
// Example patterns:
//
//	/a\d+/        → search for 'a'
//	/(?<=x)y/     → search for 'y'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }
func (p *memchrPrefilter) HeapBytes() int   { return 0 }
func (p *memchrPrefilter) String() string   { return fmt.Sprintf("memchr(%q)", p.needle) }

// memchr2Prefilter searches for either of two bytes, which covers a
// case-insensitive single ASCII letter.
type memchr2Prefilter struct {
	b1, b2   byte
	complete bool
}

func newMemchr2Prefilter(b1, b2 byte, complete bool) Prefilter {
	return &memchr2Prefilter{b1: b1, b2: b2, complete: complete}
}

// Find implements Prefilter.Find using simd.Memchr2.
func (p *memchr2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.b1, p.b2)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchr2Prefilter) IsComplete() bool { return p.complete }
func (p *memchr2Prefilter) HeapBytes() int   { return 0 }
func (p *memchr2Prefilter) String() string   { return fmt.Sprintf("memchr2(%q, %q)", p.b1, p.b2) }

// memmemPrefilter wraps simd.Memmem as a Prefilter.
//
// Example patterns:
//
//	/hello\w*/    → search for "hello"
//	/foo|foobar/  → after minimization → search for "foo"
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter copies needle.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   append([]byte(nil), needle...),
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memmem.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }
func (p *memmemPrefilter) HeapBytes() int   { return len(p.needle) }
func (p *memmemPrefilter) String() string   { return fmt.Sprintf("memmem(%q)", p.needle) }

// ahoCorasickPrefilter finds the leftmost occurrence of any of several
// literals with an Aho-Corasick automaton.
//
// Example patterns:
//
//	/(?:foo|bar|baz)\d/  → ["foo", "bar", "baz"]
//	/(?i)get/            → 8 case variants of "get"
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	count    int
	size     int
	complete bool
}

func newAhoCorasickPrefilter(seq *literal.Seq, complete bool) (Prefilter, error) {
	builder := ahocorasick.NewBuilder()
	size := 0
	for _, lit := range seq.Literals() {
		builder.AddPattern(lit.Bytes)
		size += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: aho-corasick build: %w", err)
	}
	return &ahoCorasickPrefilter{
		auto:     auto,
		count:    seq.Len(),
		size:     size,
		complete: complete,
	}, nil
}

// Find implements Prefilter.Find with the automaton.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return p.complete }

// HeapBytes approximates the automaton size by the total pattern length.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.size }

func (p *ahoCorasickPrefilter) String() string {
	return fmt.Sprintf("aho-corasick(%d literals)", p.count)
}
