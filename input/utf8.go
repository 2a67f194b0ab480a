package input

import (
	"bytes"
	"unicode/utf8"
	"unsafe"

	"github.com/coregx/btregex/simd"
)

// utf8Input is a UTF-8 input backed by a byte slice. When it was built from
// a string the slice aliases the string's memory and is never written.
type utf8Input struct {
	b     []byte
	s     string
	ascii bool
}

// String returns an Input over s without copying it.
func String(s string) Input {
	b := unsafe.Slice(unsafe.StringData(s), len(s))
	return &utf8Input{b: b, s: s, ascii: simd.IsASCII(b)}
}

// Bytes returns an Input over b. The caller must not modify b while the
// input is in use.
func Bytes(b []byte) Input {
	return &utf8Input{b: b, ascii: simd.IsASCII(b)}
}

func (in *utf8Input) Len() int { return len(in.b) }

func (in *utf8Input) Step(i int) (rune, int) {
	if i >= len(in.b) {
		return 0, 0
	}
	if c := in.b[i]; in.ascii || c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRune(in.b[i:])
}

func (in *utf8Input) StepBack(i int) (rune, int) {
	if i <= 0 {
		return 0, 0
	}
	if c := in.b[i-1]; in.ascii || c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeLastRune(in.b[:i])
}

// Boundary reports false only inside a valid multi-byte sequence. Invalid
// bytes decode one at a time, so every position around them is a boundary.
func (in *utf8Input) Boundary(i int) bool {
	if in.ascii || i <= 0 || i >= len(in.b) || utf8.RuneStart(in.b[i]) {
		return true
	}
	// Walk back to the lead byte (at most 3 steps) and check whether the
	// sequence it starts covers i.
	for j := i - 1; j >= 0 && j >= i-3; j-- {
		if utf8.RuneStart(in.b[j]) {
			_, w := utf8.DecodeRune(in.b[j:])
			return j+w <= i
		}
	}
	return true
}

func (in *utf8Input) EqualSpan(a, b, n int) bool {
	return bytes.Equal(in.b[a:a+n], in.b[b:b+n])
}

func (in *utf8Input) Index(lit *Literal, from, to int) int {
	return in.index(lit.UTF8, from, to)
}

func (in *utf8Input) LastIndex(lit *Literal, from, to int) int {
	return in.lastIndex(lit.UTF8, from, to)
}

func (in *utf8Input) IndexSpan(s, e, from, to int) int {
	return in.index(in.b[s:e], from, to)
}

func (in *utf8Input) LastIndexSpan(s, e, from, to int) int {
	return in.lastIndex(in.b[s:e], from, to)
}

// index skips matches that start inside a code point; a valid UTF-8
// needle can only match mid-sequence when the needle itself starts with a
// continuation byte, which NewLiteral never produces.
func (in *utf8Input) index(needle []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(in.b) {
		to = len(in.b)
	}
	for from <= to-len(needle) {
		p := simd.Memmem(in.b[from:to], needle)
		if p < 0 {
			return -1
		}
		if in.Boundary(from + p) {
			return from + p
		}
		from += p + 1
	}
	return -1
}

func (in *utf8Input) lastIndex(needle []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(in.b) {
		to = len(in.b)
	}
	for from <= to-len(needle) {
		p := simd.MemmemLast(in.b[from:to], needle)
		if p < 0 {
			return -1
		}
		if in.Boundary(from + p) {
			return from + p
		}
		to = from + p + len(needle) - 1
	}
	return -1
}

func (in *utf8Input) Units(lit *Literal) int { return len(lit.UTF8) }

func (in *utf8Input) Slice(s, e int) string {
	if in.s != "" || len(in.b) == 0 {
		return in.s[s:e]
	}
	return string(in.b[s:e])
}

func (in *utf8Input) Bytes() ([]byte, bool) { return in.b, true }
