package prefilter

import (
	"strings"
	"testing"

	"github.com/coregx/btregex/literal"
	"github.com/coregx/btregex/syntax"
)

func build(t *testing.T, pattern string) Prefilter {
	t.Helper()
	re, err := syntax.Parse(pattern, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return NewBuilder(literal.New(literal.DefaultConfig()).ExtractPrefixes(re)).Build()
}

func TestBuildSelection(t *testing.T) {
	tests := []struct {
		pattern  string
		want     string // String() prefix, "" for no prefilter
		complete bool
	}{
		{"a\\w+", "memchr(", false},
		{"(?i)x", "memchr2(", true},
		{"hello", "memmem(", true},
		{"foo|foobar", "memmem(", true},
		{"(?:foo|bar|baz)\\w", "aho-corasick(3 ", false},
		{"(?:foo|bar)\\d", "aho-corasick(20 ", true},
		{"(?i)get", "aho-corasick(8 ", true},
		{".*x", "", false},
		{"a?b", "aho-corasick(2 ", true},
		{"x*", "", false},
		{"[^a]b", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := build(t, tt.pattern)
			if tt.want == "" {
				if pf != nil {
					t.Errorf("Build() = %s, want nil", pf)
				}
				return
			}
			if pf == nil {
				t.Fatalf("Build() = nil, want %s...", tt.want)
			}
			if !strings.HasPrefix(pf.String(), tt.want) {
				t.Errorf("Build() = %s, want %s...", pf, tt.want)
			}
			if pf.IsComplete() != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", pf.IsComplete(), tt.complete)
			}
		})
	}
}

func TestMinLen(t *testing.T) {
	re := syntax.MustParse("ab|c", 0)
	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
	if pf := NewBuilder(seq).WithMinLen(2).Build(); pf != nil {
		t.Errorf("Build() with a short literal = %s, want nil", pf)
	}
	if pf := NewBuilder(seq).Build(); pf == nil {
		t.Error("Build() = nil without a minimum length")
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		start    int
		want     int
	}{
		{"a\\w", "xxa", 0, 2},
		{"a\\w", "axa", 1, 2},
		{"a\\w", "xxx", 0, -1},
		{"(?i)x", "abXx", 0, 2},
		{"hello", "say hello", 0, 4},
		{"hello", "say hello", 5, -1},
		{"(?:foo|bar|baz)\\w", "xx bar foo", 0, 3},
		{"(?:foo|bar|baz)\\w", "xx bar foo", 4, 7},
		{"(?:foo|bar)\\d", "foo bar1", 0, 4},
		{"(?i)get", "a GeT b", 0, 2},
		{"hello", "hello", 5, -1},
		{"hello", "hello", -1, -1},
	}
	for _, tt := range tests {
		pf := build(t, tt.pattern)
		if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
			t.Errorf("%s.Find(%q, %d) = %d, want %d", pf, tt.haystack, tt.start, got, tt.want)
		}
	}
}

func TestHeapBytes(t *testing.T) {
	if got := build(t, "hello").HeapBytes(); got != 5 {
		t.Errorf("memmem HeapBytes() = %d, want 5", got)
	}
	if got := build(t, "a\\w").HeapBytes(); got != 0 {
		t.Errorf("memchr HeapBytes() = %d, want 0", got)
	}
	if got := build(t, "(?:foo|ba)\\w").HeapBytes(); got != 5 {
		t.Errorf("aho-corasick HeapBytes() = %d, want 5", got)
	}
}
