package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/btregex/syntax"
)

func extractPrefixes(t *testing.T, config ExtractorConfig, pattern string) *Seq {
	t.Helper()
	re, err := syntax.Parse(pattern, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return New(config).ExtractPrefixes(re)
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string // nil for an infinite set
	}{
		{"hello", []string{"E:hello"}},
		{"(?:foo|bar)x", []string{"E:foox", "E:barx"}},
		{"[ab]c", []string{"E:ac", "E:bc"}},
		{"(?i)ok", []string{"E:ok", "E:oK", "E:Ok", "E:OK"}},
		{"(?i)1", []string{"E:1"}},
		{"a*b", []string{"I:a", "E:b"}},
		{"(?:ab)?c", []string{"E:c", "E:abc"}},
		{"(?:ab){2}", []string{"I:ab"}},
		{"foo\\w+", []string{"I:foo"}},
		{"x\\d", []string{"E:x0", "E:x1", "E:x2", "E:x3", "E:x4", "E:x5", "E:x6", "E:x7", "E:x8", "E:x9"}},
		{"^abc$", []string{"E:abc"}},
		{"(?<=x)ab", []string{"E:ab"}},
		{"\\b(?=a)ab", []string{"E:ab"}},
		{"(a)\\1", []string{"I:a"}},
		{"(?>ab|cd)e", []string{"E:abe", "E:cde"}},
		{"foo|foobar", []string{"E:foo"}},
		{"a?", []string{"E:"}},
		{"[a-z]x", []string{"I:"}},
		{".*foo", []string{"I:"}},
		{"foo|.", nil},
		{"[^a]", nil},
		{"\\x{FFFD}", []string{"I:"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := extractPrefixes(t, DefaultConfig(), tt.pattern)
			if tt.want == nil {
				if seq.IsFinite() {
					t.Errorf("got %s, want an infinite set", seq)
				}
				return
			}
			if diff := cmp.Diff(tt.want, render(seq)); diff != "" {
				t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractUnicodeFold(t *testing.T) {
	seq := extractPrefixes(t, DefaultConfig(), "(?iu)k")
	want := []string{"E:k", "E:K", "E:\u212a"}
	if diff := cmp.Diff(want, render(seq)); diff != "" {
		t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractLimits(t *testing.T) {
	small := ExtractorConfig{MaxLiterals: 8, MaxLiteralLen: 3, MaxClassSize: 2}

	seq := extractPrefixes(t, small, "(?i)abcdefg")
	if seq.Len() != 8 || seq.IsExact() || seq.MinLen() != 3 {
		t.Errorf("folded literal = %s, want 8 incomplete literals of length 3", seq)
	}

	seq = extractPrefixes(t, small, "abcdef")
	if diff := cmp.Diff([]string{"I:abc"}, render(seq)); diff != "" {
		t.Errorf("truncation mismatch (-want +got):\n%s", diff)
	}

	if seq := extractPrefixes(t, small, "[abc]"); seq.IsFinite() {
		t.Errorf("class over MaxClassSize = %s, want infinite", seq)
	}

	if seq := extractPrefixes(t, small, "a|b|c|d|e|f|g|h|i"); seq.IsFinite() {
		t.Errorf("alternation over MaxLiterals = %s, want infinite", seq)
	}
}
