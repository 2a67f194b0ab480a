package nfa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/btregex/input"
)

func newTestState(t *testing.T, pattern, text string) *State {
	t.Helper()
	prog, err := Compile(pattern, 0)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return NewState(prog, input.String(text))
}

func TestRegionAnchoringBounds(t *testing.T) {
	s := newTestState(t, "^b", "ab")
	s.SetRegion(1, 2)
	if !s.FindFrom(1) {
		t.Fatal("^ should match at the region start with anchoring bounds")
	}
	if st, en := s.Group(0); st != 1 || en != 2 {
		t.Errorf("group 0 = [%d,%d), want [1,2)", st, en)
	}

	s.SetAnchoringBounds(false)
	if s.FindFrom(1) {
		t.Error("^ should not match at the region start without anchoring bounds")
	}
	if s.AnchoringBounds() {
		t.Error("AnchoringBounds() = true after disabling")
	}
}

func TestRegionLimitsMatch(t *testing.T) {
	s := newTestState(t, "abc", "xxabcxx")
	s.SetRegion(0, 4)
	if s.FindFrom(0) {
		t.Error("match must not extend past the region end")
	}
	if !s.HitEnd() {
		t.Error("HitEnd() = false for a search cut off by the region")
	}
	s.SetRegion(2, 7)
	if !s.FindFrom(0) {
		t.Fatal("expected match inside region")
	}
	if st, _ := s.Group(0); st != 2 {
		t.Errorf("start = %d, want 2", st)
	}
}

func TestTransparentBounds(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		text        string
		start, end  int
		transparent bool
		want        bool
	}{
		{"opaque word boundary", "\\bb", "ab", 1, 2, false, true},
		{"transparent word boundary", "\\bb", "ab", 1, 2, true, false},
		{"opaque lookahead", "b(?=c)", "bc", 0, 1, false, false},
		{"transparent lookahead", "b(?=c)", "bc", 0, 1, true, true},
		{"opaque lookbehind", "(?<=a)b", "ab", 1, 2, false, false},
		{"transparent lookbehind", "(?<=a)b", "ab", 1, 2, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t, tt.pattern, tt.text)
			s.SetRegion(tt.start, tt.end)
			s.SetTransparentBounds(tt.transparent)
			if got := s.FindFrom(tt.start); got != tt.want {
				t.Errorf("FindFrom = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHitEndRequireEnd(t *testing.T) {
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
		{"a\\z", "a", true, true, false},
	}
	for _, tt := range tests {
		s := newTestState(t, tt.pattern, tt.text)
		found := s.FindFrom(0)
		got := []bool{found, s.HitEnd(), s.RequireEnd()}
		want := []bool{tt.found, tt.hitEnd, tt.requireEnd}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q on %q: [found hitEnd requireEnd] mismatch (-want +got):\n%s", tt.pattern, tt.text, diff)
		}
	}
}

func TestStackExhausted(t *testing.T) {
	s := newTestState(t, "(?:a|b)*", strings.Repeat("a", 1000))
	s.SetLimits(50, 0)
	if s.MatchAt(0, ModeFind) {
		t.Fatal("match should abort at the depth limit")
	}
	if !errors.Is(s.Err(), ErrStackExhausted) {
		t.Fatalf("Err() = %v, want ErrStackExhausted", s.Err())
	}
	if st, en := s.Group(0); st != -1 || en != -1 {
		t.Errorf("groups not cleared after abort: [%d,%d)", st, en)
	}

	s.SetLimits(0, 0)
	if !s.MatchAt(0, ModeMatch) {
		t.Fatalf("match with default limit failed: %v", s.Err())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v after success", s.Err())
	}
}

func TestContextCancellation(t *testing.T) {
	s := newTestState(t, "(?:a|b)*c", "ababab")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.SetContext(ctx)
	s.SetLimits(0, 1)
	if s.FindFrom(0) {
		t.Fatal("search should stop on a canceled context")
	}
	if !errors.Is(s.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", s.Err())
	}

	s.SetContext(nil)
	if s.FindFrom(0) || s.Err() != nil {
		t.Errorf("FindFrom without context: err = %v", s.Err())
	}
}

func TestFindWith(t *testing.T) {
	s := newTestState(t, "b+c", "abbcxbc")
	var tried []int
	next := func(p int) int {
		i := strings.IndexByte("abbcxbc"[p:], 'b')
		if i < 0 {
			return -1
		}
		tried = append(tried, p+i)
		return p + i
	}
	if !s.FindWith(0, next) {
		t.Fatal("FindWith found nothing")
	}
	if diff := cmp.Diff([]int{1, 4}, s.AppendGroups(nil)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, tried); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	if s.FindWith(5, func(int) int { return -1 }) {
		t.Error("FindWith should fail when no candidate remains")
	}
	if !s.HitEnd() {
		t.Error("exhausted candidates should report HitEnd")
	}
}

func TestStateReuse(t *testing.T) {
	s := newTestState(t, "(a)|(b)", "b")
	if !s.FindFrom(0) {
		t.Fatal("no match")
	}
	want := []int{0, 1, -1, -1, 0, 1}
	if diff := cmp.Diff(want, s.AppendGroups(nil)); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	s.Reset(input.String("a"))
	if !s.FindFrom(0) {
		t.Fatal("no match after Reset")
	}
	want = []int{0, 1, 0, 1, -1, -1}
	if diff := cmp.Diff(want, s.AppendGroups(nil)); diff != "" {
		t.Errorf("groups after Reset mismatch (-want +got):\n%s", diff)
	}
}
