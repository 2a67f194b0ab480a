package input

import (
	"slices"
	"unicode/utf16"
)

// utf16Input is an input of UTF-16 code units. A high surrogate followed by
// a low surrogate decodes as one supplementary code point; lone surrogates
// decode as themselves.
type utf16Input struct {
	u []uint16
}

// UTF16 returns an Input over u. The caller must not modify u while the
// input is in use.
func UTF16(u []uint16) Input {
	return &utf16Input{u: u}
}

// UTF16String encodes s as UTF-16 and returns an Input over the result.
func UTF16String(s string) Input {
	return &utf16Input{u: utf16.Encode([]rune(s))}
}

func isHigh(c uint16) bool { return c >= 0xD800 && c < 0xDC00 }
func isLow(c uint16) bool  { return c >= 0xDC00 && c < 0xE000 }

func appendUTF16(dst []uint16, r rune) []uint16 {
	return utf16.AppendRune(dst, r)
}

func (in *utf16Input) Len() int { return len(in.u) }

func (in *utf16Input) Step(i int) (rune, int) {
	if i >= len(in.u) {
		return 0, 0
	}
	c := in.u[i]
	if isHigh(c) && i+1 < len(in.u) && isLow(in.u[i+1]) {
		return utf16.DecodeRune(rune(c), rune(in.u[i+1])), 2
	}
	return rune(c), 1
}

func (in *utf16Input) StepBack(i int) (rune, int) {
	if i <= 0 {
		return 0, 0
	}
	c := in.u[i-1]
	if isLow(c) && i-2 >= 0 && isHigh(in.u[i-2]) {
		return utf16.DecodeRune(rune(in.u[i-2]), rune(c)), 2
	}
	return rune(c), 1
}

func (in *utf16Input) Boundary(i int) bool {
	return i <= 0 || i >= len(in.u) || !(isHigh(in.u[i-1]) && isLow(in.u[i]))
}

func (in *utf16Input) EqualSpan(a, b, n int) bool {
	return slices.Equal(in.u[a:a+n], in.u[b:b+n])
}

func (in *utf16Input) Index(lit *Literal, from, to int) int {
	return in.index(lit.UTF16, from, to)
}

func (in *utf16Input) LastIndex(lit *Literal, from, to int) int {
	return in.lastIndex(lit.UTF16, from, to)
}

func (in *utf16Input) IndexSpan(s, e, from, to int) int {
	return in.index(in.u[s:e], from, to)
}

func (in *utf16Input) LastIndexSpan(s, e, from, to int) int {
	return in.lastIndex(in.u[s:e], from, to)
}

// matchAt also rejects hits that would split a surrogate pair at either
// end of the needle.
func (in *utf16Input) matchAt(needle []uint16, p int) bool {
	return slices.Equal(in.u[p:p+len(needle)], needle) &&
		in.Boundary(p) && in.Boundary(p+len(needle))
}

func (in *utf16Input) index(needle []uint16, from, to int) int {
	from, to = max(from, 0), min(to, len(in.u))
	for p := from; p <= to-len(needle); p++ {
		if in.matchAt(needle, p) {
			return p
		}
	}
	return -1
}

func (in *utf16Input) lastIndex(needle []uint16, from, to int) int {
	from, to = max(from, 0), min(to, len(in.u))
	for p := to - len(needle); p >= from; p-- {
		if in.matchAt(needle, p) {
			return p
		}
	}
	return -1
}

func (in *utf16Input) Units(lit *Literal) int { return len(lit.UTF16) }

func (in *utf16Input) Slice(s, e int) string {
	return string(utf16.Decode(in.u[s:e]))
}

func (in *utf16Input) Bytes() ([]byte, bool) { return nil, false }
