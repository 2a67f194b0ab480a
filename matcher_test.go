package btregex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/btregex/nfa"
)

// mustPanic fails the test unless fn panics.
func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestMatcherFindLoop(t *testing.T) {
	m := MustCompile(`(\w)(\d)`).Matcher("a1 b2 c3")
	var got [][]any
	for m.Find() {
		got = append(got, []any{m.Start(), m.End(), m.Group(1), m.Group(2)})
	}
	want := [][]any{
		{0, 2, "a", "1"},
		{3, 5, "b", "2"},
		{6, 8, "c", "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Find loop mismatch (-want +got):\n%s", diff)
	}
	if m.Start() != -1 || m.End() != -1 {
		t.Errorf("after the last match Start, End = %d, %d; want -1, -1", m.Start(), m.End())
	}
}

func TestMatchesAndLookingAt(t *testing.T) {
	re := MustCompile(`\d+`)
	m := re.Matcher("123abc")
	if m.Matches() {
		t.Error("Matches should require the whole input")
	}
	if !m.LookingAt() || m.End() != 3 {
		t.Errorf("LookingAt = false or End = %d, want 3", m.End())
	}
	if !re.Matcher("123").Matches() {
		t.Error("Matches(\"123\") = false")
	}
	if re.Matcher("x123").LookingAt() {
		t.Error("LookingAt should be anchored at the region start")
	}

	// Find continues after the span of a successful LookingAt.
	m = re.Matcher("12 34")
	if !m.LookingAt() {
		t.Fatal("LookingAt failed")
	}
	if !m.Find() || m.Group(0) != "34" {
		t.Errorf("Find after LookingAt = %q, want \"34\"", m.Group(0))
	}
}

func TestMatcherRegion(t *testing.T) {
	re := MustCompile(`^\d+$`)
	m := re.Matcher("ab123cd").Region(2, 5)
	if m.RegionStart() != 2 || m.RegionEnd() != 5 {
		t.Errorf("region = [%d, %d), want [2, 5)", m.RegionStart(), m.RegionEnd())
	}
	if !m.HasAnchoringBounds() {
		t.Error("anchoring bounds should be on by default")
	}
	if !m.Matches() || m.Group(0) != "123" {
		t.Errorf("Matches in region = false or group %q", m.Group(0))
	}
	m.UseAnchoringBounds(false)
	if m.Matches() {
		t.Error("^ and $ should not match at region edges without anchoring bounds")
	}

	// The region limits what Find sees.
	d := MustCompile(`\d+`).Matcher("1234").Region(1, 3)
	if !d.Find() || d.Start() != 1 || d.End() != 3 {
		t.Errorf("Find in region = [%d, %d), want [1, 3)", d.Start(), d.End())
	}
	if d.Find() {
		t.Error("second Find in region should fail")
	}

	mustPanic(t, "Region(3, 1)", func() { re.Matcher("abcd").Region(3, 1) })
	mustPanic(t, "Region(0, 9)", func() { re.Matcher("abcd").Region(0, 9) })
	mustPanic(t, "Region(-1, 2)", func() { re.Matcher("abcd").Region(-1, 2) })
}

func TestMatcherTransparentBounds(t *testing.T) {
	m := MustCompile("(?<=a)b").Matcher("ab").Region(1, 2)
	if m.HasTransparentBounds() {
		t.Error("bounds should be opaque by default")
	}
	if m.Find() {
		t.Error("lookbehind should not see outside an opaque region")
	}
	m.Region(1, 2).UseTransparentBounds(true)
	if !m.Find() || m.Start() != 1 {
		t.Errorf("Find with transparent bounds: start %d, want 1", m.Start())
	}
}

func TestMatcherReset(t *testing.T) {
	m := MustCompile("a").Matcher("aa").Region(1, 2)
	m.UseTransparentBounds(true).UseAnchoringBounds(false)
	for m.Find() {
	}
	m.Reset()
	if m.RegionStart() != 0 || m.RegionEnd() != 2 {
		t.Errorf("Reset region = [%d, %d), want [0, 2)", m.RegionStart(), m.RegionEnd())
	}
	if !m.HasTransparentBounds() || m.HasAnchoringBounds() {
		t.Error("Reset should keep the bound settings")
	}
	n := 0
	for m.Find() {
		n++
	}
	if n != 2 {
		t.Errorf("matches after Reset = %d, want 2", n)
	}

	m.ResetString("xa")
	if !m.Find() || m.Start() != 1 {
		t.Errorf("Find after ResetString: start %d, want 1", m.Start())
	}
}

func TestMatcherFindFrom(t *testing.T) {
	m := MustCompile(`\d`).Matcher("1a2b3")
	if !m.FindFrom(1) || m.Start() != 2 {
		t.Fatalf("FindFrom(1): start %d, want 2", m.Start())
	}
	if !m.Find() || m.Start() != 4 {
		t.Errorf("Find after FindFrom: start %d, want 4", m.Start())
	}
	if m.FindFrom(5) {
		t.Error("FindFrom(5) should fail at the end of input")
	}
	mustPanic(t, "FindFrom(6)", func() { m.FindFrom(6) })

	// \G matches where FindFrom starts.
	g := MustCompile(`\Gb`).Matcher("abb")
	if !g.FindFrom(1) || g.Start() != 1 {
		t.Errorf("\\G FindFrom(1): start %d, want 1", g.Start())
	}
}

func TestMatcherGroups(t *testing.T) {
	m := MustCompile("(a)|(b)").Matcher("b")
	if m.StartGroup(0) != -1 || m.Group(1) != "" {
		t.Error("groups before a match should be unset")
	}
	if !m.Find() {
		t.Fatal("no match")
	}
	if m.GroupCount() != 2 {
		t.Errorf("GroupCount = %d, want 2", m.GroupCount())
	}
	got := []int{m.StartGroup(1), m.EndGroup(1), m.StartGroup(2), m.EndGroup(2)}
	if diff := cmp.Diff([]int{-1, -1, 0, 1}, got); diff != "" {
		t.Errorf("group spans mismatch (-want +got):\n%s", diff)
	}
	if m.Group(1) != "" || m.Group(2) != "b" {
		t.Errorf("groups = %q, %q", m.Group(1), m.Group(2))
	}
	mustPanic(t, "Group(3)", func() { m.Group(3) })
	mustPanic(t, "StartGroup(-1)", func() { m.StartGroup(-1) })
}

func TestMatcherGroupByName(t *testing.T) {
	m := MustCompile(`(?<word>[a-z]+)(?<num>\d)?`).Matcher("abc")
	if !m.Find() {
		t.Fatal("no match")
	}
	if text, ok := m.GroupByName("word"); !ok || text != "abc" {
		t.Errorf("GroupByName(word) = %q, %v", text, ok)
	}
	if text, ok := m.GroupByName("num"); ok || text != "" {
		t.Errorf("GroupByName(num) = %q, %v; want unset", text, ok)
	}
	mustPanic(t, "GroupByName(nope)", func() { m.GroupByName("nope") })
}

func TestMatcherHitEnd(t *testing.T) {
	tests := []struct {
		pattern    string
		text       string
		found      bool
		hitEnd     bool
		requireEnd bool
	}{
		{"abc", "ab", false, true, false},
		{"a", "ab", true, false, false},
		{"a$", "a", true, true, true},
		{"a+", "aa", true, true, false},
	}
	for _, tt := range tests {
		m := MustCompile(tt.pattern).Matcher(tt.text)
		got := []bool{m.Find(), m.HitEnd(), m.RequireEnd()}
		want := []bool{tt.found, tt.hitEnd, tt.requireEnd}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q on %q: [found hitEnd requireEnd] mismatch (-want +got):\n%s", tt.pattern, tt.text, diff)
		}
	}
}

func TestMatcherUTF16(t *testing.T) {
	text := utf16.Encode([]rune("é\U0001F600x"))
	m := MustCompile("x").MatcherUTF16(text)
	if !m.Find() || m.Start() != 3 || m.Group(0) != "x" {
		t.Errorf("Find = [%d, %d) %q, want [3, 4) \"x\"", m.Start(), m.End(), m.Group(0))
	}

	dot := MustCompile(".").MatcherUTF16(text)
	var spans [][]int
	for dot.Find() {
		spans = append(spans, []int{dot.Start(), dot.End()})
	}
	if diff := cmp.Diff([][]int{{0, 1}, {1, 3}, {3, 4}}, spans); diff != "" {
		t.Errorf("dot spans mismatch (-want +got):\n%s", diff)
	}
}

func TestMatcherUnencodableLiterals(t *testing.T) {
	type span struct{ Start, End int }
	tests := []struct {
		pattern string
		utf16   []uint16
		text    string
		find    *span
		matches bool
	}{
		{pattern: `\uD800`, utf16: []uint16{'x', 0xD800, 'y'}, find: &span{1, 2}},
		{pattern: `\uD800`, utf16: []uint16{'x', 0xFFFD, 'y'}},
		{pattern: `(?<=\uD800)y`, utf16: []uint16{'x', 0xD800, 'y'}, find: &span{2, 3}},
		{pattern: `\uD800\uD800`, utf16: []uint16{0xD800, 0xD800}, find: &span{0, 2}, matches: true},
		{pattern: `\uD800\uD800`, utf16: []uint16{0xFFFD, 0xFFFD}},
		{pattern: `\x{FFFD}`, text: "a\xffb", find: &span{1, 2}},
		{pattern: `\x{FFFD}\x{FFFD}`, text: "\xff\xfe", find: &span{0, 2}, matches: true},
		{pattern: `a\x{FFFD}b`, text: "xa\xffb", find: &span{1, 4}},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		matcher := func() *Matcher {
			if tt.utf16 != nil {
				return re.MatcherUTF16(tt.utf16)
			}
			return re.Matcher(tt.text)
		}

		m := matcher()
		var got *span
		if m.Find() {
			got = &span{m.Start(), m.End()}
		}
		if diff := cmp.Diff(tt.find, got); diff != "" {
			t.Errorf("%s: Find mismatch (-want +got):\n%s", tt.pattern, diff)
		}
		if tt.find != nil {
			// Find and an anchored attempt at the same position agree.
			look := matcher()
			look.Region(tt.find.Start, look.RegionEnd()).UseTransparentBounds(true)
			if !look.LookingAt() || look.End() != tt.find.End {
				t.Errorf("%s: LookingAt at %d disagrees with Find", tt.pattern, tt.find.Start)
			}
		}
		if got := matcher().Matches(); got != tt.matches {
			t.Errorf("%s: Matches() = %v, want %v", tt.pattern, got, tt.matches)
		}
	}
}

func TestMatcherBytes(t *testing.T) {
	m := MustCompile(`(\w)\1`).MatcherBytes([]byte("xyyz"))
	if !m.Find() || m.Group(0) != "yy" {
		t.Errorf("Find = %q, want \"yy\"", m.Group(0))
	}
	if m.Regex().String() != `(\w)\1` {
		t.Errorf("Regex() = %q", m.Regex())
	}
}

func TestMatcherContext(t *testing.T) {
	config := DefaultConfig()
	config.CancelCheckInterval = 1
	re, err := CompileWithConfig("(a|aa)+b", 0, config)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := re.Matcher(strings.Repeat("a", 12))
	ops := map[string]func(context.Context) (bool, error){
		"MatchesContext":   m.MatchesContext,
		"LookingAtContext": m.LookingAtContext,
		"FindContext":      m.FindContext,
	}
	for name, op := range ops {
		ok, err := op(ctx)
		if ok || !errors.Is(err, context.Canceled) {
			t.Errorf("%s = %v, %v; want false, context.Canceled", name, ok, err)
		}
	}

	// The context is dropped after each call.
	m.Reset()
	if m.Find() || m.Err() != nil {
		t.Errorf("Find after cancelled call = %v, err %v", m.Start() >= 0, m.Err())
	}

	ok, err := re.Matcher("aab").MatchesContext(context.Background())
	if !ok || err != nil {
		t.Errorf("MatchesContext = %v, %v", ok, err)
	}
}

func TestMatcherDepthLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = 100
	re, err := CompileWithConfig("(?:a|b)*c", 0, config)
	if err != nil {
		t.Fatal(err)
	}
	m := re.Matcher(strings.Repeat("ab", 200))
	ok, err := m.FindContext(context.Background())
	if ok || !errors.Is(err, nfa.ErrStackExhausted) {
		t.Errorf("FindContext = %v, %v; want false, ErrStackExhausted", ok, err)
	}
	if !errors.Is(m.Err(), nfa.ErrStackExhausted) {
		t.Errorf("Err() = %v", m.Err())
	}
	if re.MatchString(strings.Repeat("ab", 200)) {
		t.Error("MatchString should report no match after an abort")
	}
	if re.Stats().Aborts < 2 {
		t.Errorf("Aborts = %d, want >= 2", re.Stats().Aborts)
	}
}
