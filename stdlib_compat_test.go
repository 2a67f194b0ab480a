package btregex

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// compatPatterns is a subset of the syntax on which the standard library
// and java.util.regex agree for printable ASCII text: leftmost-first
// alternation, greedy and lazy quantifiers, ASCII classes, and matches that
// can never be empty (the two disagree on empty matches next to a previous
// match).
var compatPatterns = []string{
	`\d+`,
	`[a-z]+\d*`,
	`(\w+)@(\w+)`,
	`a|ab|abc`,
	`(a|ab)(c|bcd)(d*)`,
	`x*y`,
	`^\w+`,
	`\w+$`,
	`\bfoo\b`,
	`(?i)hello`,
	`(a+)(b+)?c`,
	`[^ ]+`,
	`.+?x`,
	`(\d{2,3})-(\d+)`,
	`(?:ab)+`,
	`(a|b)*c`,
	`\s+\S`,
	`(?m)^\d`,
	`(?s).b`,
}

var compatTexts = []string{
	"foo bar@baz 123-4567",
	"abcd aab HELLO xxy",
	"ababab abc cab",
	"food foo fool",
	"x",
	"",
	"hello World 42",
	"a1b22c333",
}

// printableASCII reports whether s only holds characters on which both
// engines classify identically.
func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

func checkStdlibCompat(t *testing.T, pattern, text string) {
	t.Helper()
	std := regexp.MustCompile(pattern)
	re := MustCompile(pattern)

	if diff := cmp.Diff(std.FindStringSubmatchIndex(text), re.FindStringSubmatchIndex(text)); diff != "" {
		t.Errorf("FindStringSubmatchIndex(%q, %q) mismatch (-regexp +btregex):\n%s", pattern, text, diff)
	}
	if diff := cmp.Diff(std.FindAllStringIndex(text, -1), re.FindAllStringIndex(text, -1)); diff != "" {
		t.Errorf("FindAllStringIndex(%q, %q) mismatch (-regexp +btregex):\n%s", pattern, text, diff)
	}
	if got, want := re.ReplaceAllString(text, "<$0>"), std.ReplaceAllString(text, "<${0}>"); got != want {
		t.Errorf("ReplaceAllString(%q, %q) = %q, want %q", pattern, text, got, want)
	}
	if diff := cmp.Diff(std.Split(text, -1), re.Split(text, -1)); diff != "" {
		t.Errorf("Split(%q, %q) mismatch (-regexp +btregex):\n%s", pattern, text, diff)
	}
}

func TestStdlibCompat(t *testing.T) {
	for _, pattern := range compatPatterns {
		t.Run(pattern, func(t *testing.T) {
			for _, text := range compatTexts {
				checkStdlibCompat(t, pattern, text)
			}
		})
	}
}

// [[:alpha:]] is a POSIX class in RE2 but a nested class union here.
func TestPosixBracketIsUnion(t *testing.T) {
	re := MustCompile(`[[:alpha:]]+`)
	if got := re.FindString("xyz:pal"); got != ":pal" {
		t.Errorf("FindString = %q, want \":pal\"", got)
	}
}

// FuzzFindStdlib compares first-match and all-match results with the
// standard library on printable ASCII text.
//
// Run with:
//
//	go test -fuzz=FuzzFindStdlib -fuzztime=30s
func FuzzFindStdlib(f *testing.F) {
	for _, text := range compatTexts {
		f.Add(text)
	}
	f.Fuzz(func(t *testing.T, text string) {
		if !printableASCII(text) {
			return
		}
		for _, pattern := range compatPatterns {
			checkStdlibCompat(t, pattern, text)
		}
	})
}

// FuzzQuoteMeta checks that a quoted string compiles to a pattern matching
// exactly that string.
func FuzzQuoteMeta(f *testing.F) {
	for _, s := range []string{"", "a.b", `\Q\E`, "(?i)", "é+😀", "[x]{2}", "a\nb"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			return
		}
		re, err := Compile(QuoteMeta(s))
		if err != nil {
			t.Fatalf("Compile(QuoteMeta(%q)): %v", s, err)
		}
		if !re.Matcher(s).Matches() {
			t.Errorf("QuoteMeta(%q) does not match its input", s)
		}
		text := "<" + s + ">"
		if got := re.FindStringIndex(text); got == nil || got[0] != strings.Index(text, s) {
			t.Errorf("QuoteMeta(%q) found at %v, want start %d", s, got, strings.Index(text, s))
		}
	})
}
