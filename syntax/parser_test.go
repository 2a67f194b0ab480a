package syntax

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTree(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    string
	}{
		{"abc", 0, "lit{abc}"},
		{"a|b|c", 0, "alt{lit{a} lit{b} lit{c}}"},
		{"(a)\\1", 0, "cat{cap1{lit{a}} ref1}"},
		{"(a)\\12", 0, "cat{cap1{lit{a}} ref1 lit{2}}"},
		{"a*?", 0, "rep0,?{lit{a}}"},
		{"a{2,3}+", 0, "rep2,3+{lit{a}}"},
		{"ab+", 0, "cat{lit{a} rep1,{lit{b}}}"},
		{"(?:ab)*", 0, "rep0,{cat{lit{ab}}}"},
		{"(?<=a)b", 0, "cat{look<={lit{a}} lit{b}}"},
		{"(?!a)", 0, "look!{lit{a}}"},
		{"(?>a|b)", 0, "atomic{alt{lit{a} lit{b}}}"},
		{"\\Qa*\\E+", 0, "cat{lit{a} rep1,{lit{*}}}"},
		{"(?i)ab(?-i)c", 0, "cat{lit{ab} lit{c}}"},
		{"(?x) a b # comment\n c", 0, "lit{abc}"},
		{"^a$", 0, "cat{assert{1} lit{a} assert{2}}"},
		{"a.b", Literal, "lit{a.b}"},
		{"", 0, "empty"},
		{"a||b", 0, "alt{lit{a} empty lit{b}}"},
		{"(?<year>\\d)\\k<year>", 0, "cat{cap1{class} ref1}"},
		{"\\x41\\u0042\\0103\\x{44}", 0, "lit{ABCD}"},
		{"\\uD83D\\uDE00", 0, "lit{\U0001F600}"},
		{"\\cA", 0, "lit{\x01}"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern, tt.flags)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			if got := re.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
		index   int
	}{
		{"(a", ErrUnclosedGroup, 2},
		{"a)", ErrUnmatchedParen, 1},
		{"(a)\\2", ErrInvalidBackref, 3},
		{"a{3,2}", ErrRepetitionRange, 5},
		{"*a", ErrDanglingMeta, 0},
		{"a**", ErrDanglingMeta, 2},
		{"[a", ErrUnclosedClass, 1},
		{"\\k<x>", ErrUnknownGroupName, 0},
		{"(?<n>a)(?<n>b)", ErrDuplicateGroupName, 7},
		{"(?q)", ErrUnknownFlag, 2},
		{"\\p{Foo}", ErrUnknownProperty, 0},
		{"[z-a]", ErrIllegalRange, 3},
		{"\\y", ErrIllegalEscape, 0},
		{"a{x}", ErrIllegalRepetition, 1},
		{"a{2", ErrUnclosedCount, 3},
		{"\\xZZ", ErrIllegalHex, 0},
		{"\\u12", ErrIllegalUnicode, 0},
		{"\\09", ErrIllegalOctal, 0},
		{"a\\", ErrUnexpectedEnd, 1},
		{"(?<1a>x)", ErrBadGroupName, 3},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern, 0)
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.pattern)
			}
			var serr *Error
			if !errors.As(err, &serr) {
				t.Fatalf("Parse(%q): error %T is not *Error", tt.pattern, err)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse(%q): code = %q, want %q", tt.pattern, serr.Code, tt.code)
			}
			if serr.Index != tt.index {
				t.Errorf("Parse(%q): index = %d, want %d", tt.pattern, serr.Index, tt.index)
			}
		})
	}
}

func TestErrorFormat(t *testing.T) {
	_, err := Parse("ab(c", 0)
	want := "Unclosed group near index: 4\nab(c\n    ^"
	if err == nil || err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}

	e := &Error{Code: ErrUnknownFlag, Pattern: "x", Index: -1}
	if got := e.Error(); got != "Unknown inline modifier\nx" {
		t.Errorf("Error() without index = %q", got)
	}
}

func TestCapNames(t *testing.T) {
	re := MustParse("(?<first>a)(b)(?<third>c)(?:d)", 0)
	if got := re.MaxCap(); got != 3 {
		t.Errorf("MaxCap = %d, want 3", got)
	}
	want := []string{"", "first", "", "third"}
	if diff := cmp.Diff(want, re.CapNames()); diff != "" {
		t.Errorf("CapNames mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagScoping(t *testing.T) {
	re := MustParse("a(?i:b)c((?m)d)e", 0)
	var got []Flags
	re.Walk(func(n *Regexp) {
		if n.Op == OpLiteral {
			got = append(got, n.Flags&(CaseInsensitive|Multiline))
		}
	})
	want := []Flags{0, CaseInsensitive, 0, Multiline, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literal flags mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagsString(t *testing.T) {
	f, err := ParseFlags("ims")
	if err != nil {
		t.Fatal(err)
	}
	if f != CaseInsensitive|Multiline|DotAll {
		t.Errorf("ParseFlags(ims) = %d", f)
	}
	if got := f.String(); got != "ims" {
		t.Errorf("String() = %q, want %q", got, "ims")
	}
	if _, err := ParseFlags("iq"); !errors.Is(err, ErrUnknownFlag) {
		t.Errorf("ParseFlags(iq) error = %v", err)
	}
}
