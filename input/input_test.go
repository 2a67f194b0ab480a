package input

import (
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// both returns UTF-8 and UTF-16 inputs over s.
func both(s string) map[string]Input {
	return map[string]Input{
		"utf8":  String(s),
		"utf16": UTF16String(s),
	}
}

func TestStep(t *testing.T) {
	const text = "aé\U0001F600"
	tests := map[string]struct {
		in    Input
		steps []int
	}{
		"utf8":  {String(text), []int{1, 2, 4}},
		"utf16": {UTF16String(text), []int{1, 1, 2}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var runes []rune
			var widths []int
			for p := 0; p < tt.in.Len(); {
				r, w := tt.in.Step(p)
				runes = append(runes, r)
				widths = append(widths, w)
				p += w
			}
			if diff := cmp.Diff([]rune(text), runes); diff != "" {
				t.Errorf("runes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.steps, widths); diff != "" {
				t.Errorf("widths mismatch (-want +got):\n%s", diff)
			}

			var back []rune
			for p := tt.in.Len(); p > 0; {
				r, w := tt.in.StepBack(p)
				back = append(back, r)
				p -= w
			}
			if len(back) != 3 || back[0] != '\U0001F600' || back[2] != 'a' {
				t.Errorf("StepBack runes = %q", back)
			}
			if _, w := tt.in.Step(tt.in.Len()); w != 0 {
				t.Errorf("Step at end width = %d", w)
			}
			if _, w := tt.in.StepBack(0); w != 0 {
				t.Errorf("StepBack at start width = %d", w)
			}
		})
	}
}

func TestBoundary(t *testing.T) {
	u8 := String("a\U0001F600b")
	for i, want := range []bool{true, true, false, false, false, true, true} {
		if got := u8.Boundary(i); got != want {
			t.Errorf("utf8 Boundary(%d) = %v, want %v", i, got, want)
		}
	}
	u16 := UTF16String("a\U0001F600b")
	for i, want := range []bool{true, true, false, true, true} {
		if got := u16.Boundary(i); got != want {
			t.Errorf("utf16 Boundary(%d) = %v, want %v", i, got, want)
		}
	}
	// Invalid UTF-8 decodes byte by byte.
	bad := Bytes([]byte{'a', 0x80, 0x80, 'b'})
	for i := 0; i <= 4; i++ {
		if !bad.Boundary(i) {
			t.Errorf("invalid Boundary(%d) = false", i)
		}
	}
	// A lone high surrogate is its own code point.
	lone := UTF16([]uint16{0xD83D, 'x'})
	if !lone.Boundary(1) {
		t.Error("lone surrogate should end at a boundary")
	}
}

func TestIndex(t *testing.T) {
	lit := NewLiteral([]rune("ab"))
	for name, in := range both("xabyab") {
		t.Run(name, func(t *testing.T) {
			if got := in.Index(lit, 0, in.Len()); got != 1 {
				t.Errorf("Index = %d, want 1", got)
			}
			if got := in.Index(lit, 2, in.Len()); got != 4 {
				t.Errorf("Index from 2 = %d, want 4", got)
			}
			if got := in.Index(lit, 2, 5); got != -1 {
				t.Errorf("Index in [2,5) = %d, want -1", got)
			}
			if got := in.LastIndex(lit, 0, in.Len()); got != 4 {
				t.Errorf("LastIndex = %d, want 4", got)
			}
			if got := in.LastIndex(lit, 0, 5); got != 1 {
				t.Errorf("LastIndex in [0,5) = %d, want 1", got)
			}
			if got := in.IndexSpan(1, 3, 2, in.Len()); got != 4 {
				t.Errorf("IndexSpan = %d, want 4", got)
			}
			if got := in.LastIndexSpan(4, 6, 0, 4); got != 1 {
				t.Errorf("LastIndexSpan = %d, want 1", got)
			}
			if !in.EqualSpan(1, 4, 2) || in.EqualSpan(0, 3, 2) {
				t.Error("EqualSpan mismatch")
			}
		})
	}
}

func TestIndexSkipsSplitSurrogates(t *testing.T) {
	// A lone low surrogate in the pattern must not match the second half
	// of a pair.
	in := UTF16([]uint16{0xD83D, 0xDE00, 0xDE00})
	lit := &Literal{UTF16: []uint16{0xDE00}}
	if got := in.Index(lit, 0, in.Len()); got != 2 {
		t.Errorf("Index = %d, want 2", got)
	}
	if got := in.LastIndex(lit, 0, 2); got != -1 {
		t.Errorf("LastIndex = %d, want -1", got)
	}
}

func TestUnitsAndSlice(t *testing.T) {
	lit := NewLiteral([]rune("é\U0001F600"))
	if lit.String() != "é\U0001F600" {
		t.Errorf("String = %q", lit.String())
	}
	u8, u16 := String("xé\U0001F600"), UTF16String("xé\U0001F600")
	if got := u8.Units(lit); got != 6 {
		t.Errorf("utf8 Units = %d, want 6", got)
	}
	if got := u16.Units(lit); got != 3 {
		t.Errorf("utf16 Units = %d, want 3", got)
	}
	if got := u8.Slice(1, 7); got != "é\U0001F600" {
		t.Errorf("utf8 Slice = %q", got)
	}
	if got := u16.Slice(1, 4); got != "é\U0001F600" {
		t.Errorf("utf16 Slice = %q", got)
	}
	if got := Bytes([]byte("abc")).Slice(1, 2); got != "b" {
		t.Errorf("bytes Slice = %q", got)
	}
	if b, ok := u8.Bytes(); !ok || string(b) != "xé\U0001F600" {
		t.Errorf("Bytes = %q, %v", b, ok)
	}
	if _, ok := u16.Bytes(); ok {
		t.Error("UTF-16 input should not expose bytes")
	}
}

func TestIsLineTerminator(t *testing.T) {
	for _, r := range "\n\r\u0085\u2028\u2029" {
		if !IsLineTerminator(r, false) {
			t.Errorf("IsLineTerminator(%q) = false", r)
		}
	}
	if IsLineTerminator('\r', true) || !IsLineTerminator('\n', true) {
		t.Error("unix lines should only treat '\\n' as a terminator")
	}
	if IsLineTerminator('a', false) {
		t.Error("'a' is not a line terminator")
	}
}

func TestSearchable(t *testing.T) {
	tests := []struct {
		runes []rune
		want  bool
	}{
		{[]rune("abc"), true},
		{[]rune("é\U0001F600"), true},
		{[]rune{'a', 0xD800}, false},
		{[]rune{0xDFFF}, false},
		{[]rune{'a', utf8.RuneError}, false},
		{[]rune{unicode.MaxRune + 1}, false},
		{nil, true},
	}
	for _, tt := range tests {
		if got := Searchable(tt.runes); got != tt.want {
			t.Errorf("Searchable(%U) = %v, want %v", tt.runes, got, tt.want)
		}
	}
}

func TestNewLiteralIndex(t *testing.T) {
	lit := NewLiteral([]rune("é\U0001F600"))
	u8 := String("aé\U0001F600é\U0001F600")
	if got := u8.Index(lit, 0, u8.Len()); got != 1 {
		t.Errorf("utf8 Index = %d, want 1", got)
	}
	if got := u8.LastIndex(lit, 0, u8.Len()); got != 7 {
		t.Errorf("utf8 LastIndex = %d, want 7", got)
	}
	u16 := UTF16String("aé\U0001F600")
	if got := u16.Index(lit, 0, u16.Len()); got != 1 {
		t.Errorf("utf16 Index = %d, want 1", got)
	}
}
