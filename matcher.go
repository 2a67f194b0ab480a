package btregex

import (
	"context"
	"fmt"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/meta"
	"github.com/coregx/btregex/nfa"
)

// Matcher performs stateful match operations over one input, in the manner
// of java.util.regex.Matcher: successive Find calls walk through the
// matches, a region restricts matching to part of the input, and the
// group accessors describe the last successful operation.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	re *Regex
	in input.Input
	s  *meta.Searcher
}

func newMatcher(re *Regex, in input.Input) *Matcher {
	return &Matcher{
		re: re,
		in: in,
		s:  re.engine.NewSearcher(in),
	}
}

// Regex returns the expression the Matcher runs.
func (m *Matcher) Regex() *Regex {
	return m.re
}

// Reset discards the match history and sets the region to the whole
// input. Anchoring and transparent bounds are left as they are.
func (m *Matcher) Reset() *Matcher {
	st := m.s.State()
	anchoring, transparent := st.AnchoringBounds(), st.TransparentBounds()
	m.s.Reset(m.in)
	st.SetAnchoringBounds(anchoring)
	st.SetTransparentBounds(transparent)
	return m
}

// ResetString rebinds the Matcher to s and resets it.
func (m *Matcher) ResetString(s string) *Matcher {
	m.in = input.String(s)
	return m.Reset()
}

// Region restricts matching to [start, end) and discards the match
// history. It panics if the bounds are outside the input or start > end.
func (m *Matcher) Region(start, end int) *Matcher {
	if start < 0 || end > m.in.Len() || start > end {
		panic(fmt.Sprintf("btregex: region [%d, %d) out of range for input of length %d", start, end, m.in.Len()))
	}
	m.s.SetRegion(start, end)
	return m
}

// RegionStart returns the start of the region.
func (m *Matcher) RegionStart() int {
	start, _ := m.s.State().Region()
	return start
}

// RegionEnd returns the end of the region.
func (m *Matcher) RegionEnd() int {
	_, end := m.s.State().Region()
	return end
}

// UseAnchoringBounds controls whether ^, $, \A and \z match at the region
// edges (the default) or only at the edges of the whole input.
func (m *Matcher) UseAnchoringBounds(b bool) *Matcher {
	m.s.State().SetAnchoringBounds(b)
	return m
}

// HasAnchoringBounds reports whether anchoring bounds are in effect.
func (m *Matcher) HasAnchoringBounds() bool {
	return m.s.State().AnchoringBounds()
}

// UseTransparentBounds controls whether lookaround and \b may see text
// outside the region. The default is opaque bounds.
func (m *Matcher) UseTransparentBounds(b bool) *Matcher {
	m.s.State().SetTransparentBounds(b)
	return m
}

// HasTransparentBounds reports whether transparent bounds are in effect.
func (m *Matcher) HasTransparentBounds() bool {
	return m.s.State().TransparentBounds()
}

// Matches reports whether the whole region matches the expression.
func (m *Matcher) Matches() bool {
	return m.s.MatchAt(nfa.ModeMatch)
}

// LookingAt reports whether a prefix of the region matches the expression.
func (m *Matcher) LookingAt() bool {
	return m.s.MatchAt(nfa.ModeFind)
}

// Find moves to the next match in the region. The first call searches from
// the start of the region; later calls start where the previous match
// ended, one position further after an empty match.
func (m *Matcher) Find() bool {
	return m.s.Next()
}

// FindFrom resets the Matcher and finds the first match starting at or
// after from. It panics if from is outside the input.
func (m *Matcher) FindFrom(from int) bool {
	if from < 0 || from > m.in.Len() {
		panic(fmt.Sprintf("btregex: FindFrom(%d) out of range for input of length %d", from, m.in.Len()))
	}
	m.Reset()
	return m.s.Find(from)
}

// MatchesContext is Matches with cancellation. The error is the context's
// error, or nfa.ErrStackExhausted when the pattern recursed too deeply.
func (m *Matcher) MatchesContext(ctx context.Context) (bool, error) {
	return m.withContext(ctx, m.Matches)
}

// LookingAtContext is LookingAt with cancellation.
func (m *Matcher) LookingAtContext(ctx context.Context) (bool, error) {
	return m.withContext(ctx, m.LookingAt)
}

// FindContext is Find with cancellation.
func (m *Matcher) FindContext(ctx context.Context) (bool, error) {
	return m.withContext(ctx, m.Find)
}

func (m *Matcher) withContext(ctx context.Context, op func() bool) (bool, error) {
	m.s.SetContext(ctx)
	defer m.s.SetContext(nil)
	ok := op()
	return ok, m.s.Err()
}

// Start returns the start of the last match, or -1 if the last operation
// did not match.
func (m *Matcher) Start() int {
	return m.s.Start()
}

// End returns the end of the last match, or -1.
func (m *Matcher) End() int {
	return m.s.End()
}

// GroupCount returns the number of capturing groups, not counting group 0.
func (m *Matcher) GroupCount() int {
	return m.re.NumSubexp()
}

// StartGroup returns the start of group i in the last match, or -1 if the
// group did not participate or there was no match. It panics if i is not
// in [0, GroupCount()].
func (m *Matcher) StartGroup(i int) int {
	start, _ := m.group(i)
	return start
}

// EndGroup returns the end of group i in the last match, or -1.
func (m *Matcher) EndGroup(i int) int {
	_, end := m.group(i)
	return end
}

// Group returns the text of group i in the last match. It returns "" when
// the group did not participate; use StartGroup to tell an unset group
// from an empty one.
func (m *Matcher) Group(i int) string {
	start, end := m.group(i)
	if start < 0 {
		return ""
	}
	return m.in.Slice(start, end)
}

// GroupByName returns the text of the named group in the last match. ok
// is false when the group did not participate. It panics if there is no
// group with that name.
func (m *Matcher) GroupByName(name string) (text string, ok bool) {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("btregex: no group named %q", name))
	}
	start, end := m.group(i)
	if start < 0 {
		return "", false
	}
	return m.in.Slice(start, end), true
}

func (m *Matcher) group(i int) (start, end int) {
	if i < 0 || i > m.GroupCount() {
		panic(fmt.Sprintf("btregex: group %d out of range [0, %d]", i, m.GroupCount()))
	}
	if !m.s.Matched() {
		return -1, -1
	}
	return m.s.State().Group(i)
}

// HitEnd reports whether the last operation read the end of the region,
// so that more input could have changed its result.
func (m *Matcher) HitEnd() bool {
	return m.s.State().HitEnd()
}

// RequireEnd reports whether more input could turn the last successful
// match into a failure.
func (m *Matcher) RequireEnd() bool {
	return m.s.State().RequireEnd()
}

// Err returns the error that aborted the last operation, if any.
func (m *Matcher) Err() error {
	return m.s.Err()
}
