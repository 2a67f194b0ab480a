package meta

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/nfa"
	"github.com/coregx/btregex/syntax"
)

func mustCompile(t *testing.T, pattern string, config Config) *Engine {
	t.Helper()
	e, err := CompileWithConfig(pattern, 0, config)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return e
}

// allSpans returns the group 0 spans of every successive match.
func allSpans(t *testing.T, e *Engine, text string) [][2]int {
	t.Helper()
	var out [][2]int
	err := e.FindAll(context.Background(), input.String(text), -1, func(spans []int) bool {
		out = append(out, [2]int{spans[0], spans[1]})
		return true
	})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	return out
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("a{2,1}", 0)
	var serr *syntax.Error
	if !errors.As(err, &serr) {
		t.Errorf("Compile error = %v, want *syntax.Error", err)
	}
	bad := DefaultConfig()
	bad.MaxDepth = 0
	_, err = CompileWithConfig("a", 0, bad)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("CompileWithConfig error = %v, want *ConfigError", err)
	}
}

func TestEnginePrefilterSelection(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"hello\\w*", true},
		{"(?:foo|bar)\\d", true},
		{"^hello", false},
		{".*x", false},
		{"(a)?b", true},
	}
	for _, tt := range tests {
		e := mustCompile(t, tt.pattern, DefaultConfig())
		if got := e.Prefilter() != nil; got != tt.want {
			t.Errorf("%q: prefilter = %v, want %v", tt.pattern, e.Prefilter(), tt.want)
		}
	}

	off := DefaultConfig()
	off.EnablePrefilter = false
	if e := mustCompile(t, "hello", off); e.Prefilter() != nil {
		t.Error("prefilter built with EnablePrefilter = false")
	}
	long := DefaultConfig()
	long.MinLiteralLen = 6
	if e := mustCompile(t, "hello", long); e.Prefilter() != nil {
		t.Error("prefilter built for a literal below MinLiteralLen")
	}
}

func TestFindAllSuccessiveMatches(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    [][2]int
	}{
		{"a*", "baaa", [][2]int{{0, 0}, {1, 4}, {4, 4}}},
		{"\\d+", "a1b22c333", [][2]int{{1, 2}, {3, 5}, {6, 9}}},
		{"\\Ga", "aab", [][2]int{{0, 1}, {1, 2}}},
		{"", "ab", [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"x", "abc", nil},
		{"(?:foo|bar)\\d", "foo1 bar foo2 bar3", [][2]int{{0, 4}, {9, 13}, {14, 18}}},
		{"é", "éaé", [][2]int{{0, 2}, {3, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			for _, pf := range []bool{true, false} {
				config := DefaultConfig()
				config.EnablePrefilter = pf
				got := allSpans(t, mustCompile(t, tt.pattern, config), tt.text)
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("prefilter=%v: spans mismatch (-want +got):\n%s", pf, diff)
				}
			}
		})
	}
}

func TestFindAllLimit(t *testing.T) {
	e := mustCompile(t, "a", DefaultConfig())
	count := 0
	err := e.FindAll(context.Background(), input.String("aaaa"), 2, func([]int) bool {
		count++
		return true
	})
	if err != nil || count != 2 {
		t.Errorf("FindAll(n=2) reported %d matches, err %v", count, err)
	}
	count = 0
	_ = e.FindAll(context.Background(), input.String("aaaa"), -1, func([]int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("FindAll stopped after %d matches, want 3", count)
	}
}

func TestSearcherFindAndMatchAt(t *testing.T) {
	e := mustCompile(t, "(\\w+)@(\\w+)", DefaultConfig())
	s := e.NewSearcher(input.String("mail me@home or you@work"))
	if !s.Find(10) {
		t.Fatal("Find(10) found nothing")
	}
	if s.Start() != 16 || s.End() != 24 {
		t.Errorf("Find(10) = [%d, %d), want [16, 24)", s.Start(), s.End())
	}
	if got := s.State().AppendGroups(nil); !cmp.Equal(got, []int{16, 24, 16, 19, 20, 24}) {
		t.Errorf("groups = %v", got)
	}
	if s.Next() {
		t.Errorf("Next after the last match = [%d, %d)", s.Start(), s.End())
	}
	if s.Matched() || s.Start() != -1 {
		t.Error("failed Next should clear the match")
	}

	s.SetRegion(5, 12)
	if !s.MatchAt(nfa.ModeMatch) || s.End() != 12 {
		t.Errorf("MatchAt(ModeMatch) over region [5, 12) failed")
	}
	s.SetRegion(5, 14)
	if s.MatchAt(nfa.ModeMatch) {
		t.Error("MatchAt(ModeMatch) should fail when the match does not cover the region")
	}
	if !s.MatchAt(nfa.ModeFind) || s.End() != 12 {
		t.Error("MatchAt(ModeFind) should match a prefix of the region")
	}
}

func TestSearcherReset(t *testing.T) {
	e := mustCompile(t, "b+", DefaultConfig())
	s := e.NewSearcher(input.String("abba"))
	if !s.Next() || s.Start() != 1 {
		t.Fatal("first search failed")
	}
	s.Reset(input.UTF16String("bab"))
	if !s.Next() || s.Start() != 0 || s.End() != 1 {
		t.Errorf("after Reset: [%d, %d)", s.Start(), s.End())
	}
	if !s.Next() || s.Start() != 2 {
		t.Errorf("second match after Reset at %d", s.Start())
	}
}

func TestTrackerRetiresPrefilter(t *testing.T) {
	e := mustCompile(t, "a\\W", DefaultConfig())
	text := strings.Repeat("a", 300) + "a!"
	s := e.NewSearcher(input.String(text))
	if !s.Next() || s.Start() != 300 {
		t.Fatalf("Next = %v at %d, want a match at 300", s.Matched(), s.Start())
	}
	stats := e.Stats()
	if stats.PrefilterAbandoned != 1 {
		t.Errorf("PrefilterAbandoned = %d, want 1", stats.PrefilterAbandoned)
	}
	if stats.PrefilterHits != 1 || stats.Searches != 1 {
		t.Errorf("stats = %+v", stats)
	}
	e.ResetStats()
	if e.Stats() != (Stats{}) {
		t.Errorf("ResetStats left %+v", e.Stats())
	}
}

func TestCancellationAborts(t *testing.T) {
	config := DefaultConfig()
	config.CancelCheckInterval = 1
	e := mustCompile(t, "(a|aa)+b", config)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.FindAll(ctx, input.String(strings.Repeat("a", 40)), -1, func([]int) bool {
		t.Error("unexpected match")
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FindAll error = %v, want context.Canceled", err)
	}
	if e.Stats().Aborts != 1 {
		t.Errorf("Aborts = %d, want 1", e.Stats().Aborts)
	}
}

func TestDepthLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxDepth = 100
	e := mustCompile(t, "(?:a|b)*c", config)
	s := e.NewSearcher(input.String(strings.Repeat("ab", 200)))
	if s.Next() {
		t.Fatal("unexpected match")
	}
	if !errors.Is(s.Err(), nfa.ErrStackExhausted) {
		t.Errorf("Err() = %v, want ErrStackExhausted", s.Err())
	}
}

func TestConcurrentSearchers(t *testing.T) {
	e := mustCompile(t, "(\\d+)-(\\d+)", DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := e.GetSearcher(input.String("tel 12-345 and 6-7"))
				if !s.Next() || s.Start() != 4 || s.End() != 10 {
					t.Errorf("pooled search = [%d, %d)", s.Start(), s.End())
				}
				e.PutSearcher(s)
			}
		}()
	}
	wg.Wait()
	if got := e.Stats().Searches; got != 800 {
		t.Errorf("Searches = %d, want 800", got)
	}
}

func TestEngineAccessors(t *testing.T) {
	e := mustCompile(t, "^(?<year>\\d{4})-(\\d\\d)", DefaultConfig())
	if e.NumGroups() != 3 {
		t.Errorf("NumGroups() = %d", e.NumGroups())
	}
	if diff := cmp.Diff([]string{"", "year", ""}, e.SubexpNames()); diff != "" {
		t.Errorf("SubexpNames mismatch (-want +got):\n%s", diff)
	}
	if !e.IsStartAnchored() || e.Prefilter() != nil {
		t.Error("anchored pattern should have no prefilter")
	}
	if e.Config() != DefaultConfig() {
		t.Error("Config() differs from the compile configuration")
	}
	if e.Program().Pattern() != "^(?<year>\\d{4})-(\\d\\d)" {
		t.Errorf("Program().Pattern() = %q", e.Program().Pattern())
	}
}
