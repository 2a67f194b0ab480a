package meta

import (
	"context"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/nfa"
	"github.com/coregx/btregex/prefilter"
)

// Searcher runs an Engine over one input. It owns the match state (groups,
// region, bounds, hitEnd/requireEnd) and the position of the last match,
// which drives successive Next calls.
//
// A Searcher is not safe for concurrent use.
type Searcher struct {
	engine   *Engine
	state    *nfa.State
	tracker  *prefilter.Tracker
	haystack []byte

	// first and last are the span of the previous match; first is -1
	// when there is none.
	first, last int
	matched     bool
}

// NewSearcher returns a Searcher bound to in.
func (e *Engine) NewSearcher(in input.Input) *Searcher {
	s := &Searcher{
		engine: e,
		state:  nfa.NewState(e.prog, in),
	}
	s.state.SetLimits(e.config.MaxDepth, e.config.CancelCheckInterval)
	if e.prefilter != nil && e.config.Tracker {
		s.tracker = prefilter.NewTracker(e.prefilter)
	}
	s.bind(in)
	return s
}

// Reset binds the Searcher to a new input, resetting the region, bounds,
// match history and prefilter tracking.
func (s *Searcher) Reset(in input.Input) {
	s.state.Reset(in)
	if s.tracker != nil {
		s.tracker.Reset()
	}
	s.bind(in)
}

func (s *Searcher) bind(in input.Input) {
	s.haystack = nil
	if in != nil {
		s.haystack, _ = in.Bytes()
	}
	s.first, s.last = -1, 0
	s.matched = false
}

// Engine returns the engine the Searcher runs.
func (s *Searcher) Engine() *Engine {
	return s.engine
}

// State returns the underlying match state, for region and bound control
// and for reading groups.
func (s *Searcher) State() *nfa.State {
	return s.state
}

// SetContext installs a context checked during matching. nil disables
// checking.
func (s *Searcher) SetContext(ctx context.Context) {
	s.state.SetContext(ctx)
}

// SetRegion restricts the Searcher to [start, end) and forgets the previous
// match.
func (s *Searcher) SetRegion(start, end int) {
	s.state.SetRegion(start, end)
	s.first, s.last = -1, start
	s.matched = false
}

// ResetMatch forgets the previous match, so the next Next call starts at
// the beginning of the region.
func (s *Searcher) ResetMatch() {
	start, _ := s.state.Region()
	s.first, s.last = -1, start
	s.matched = false
}

// Next finds the next match after the previous one. An empty previous
// match makes the search start one position further on. The first call
// searches from the start of the region.
func (s *Searcher) Next() bool {
	from := s.last
	if from == s.first {
		from++
	}
	start, end := s.state.Region()
	from = max(from, start)
	if from > end {
		s.fail()
		return false
	}
	prev := s.last
	if s.first < 0 {
		prev = from
	}
	return s.search(from, prev)
}

// Find resets the match history and finds the first match starting at or
// after from. \G matches at from.
func (s *Searcher) Find(from int) bool {
	s.ResetMatch()
	return s.search(from, from)
}

// MatchAt attempts a match starting exactly at the start of the region.
// In nfa.ModeMatch the match must also cover the whole region.
func (s *Searcher) MatchAt(mode nfa.Mode) bool {
	start, _ := s.state.Region()
	s.state.SetPrevEnd(start)
	s.engine.stats.searches.Add(1)
	return s.finish(s.state.MatchAt(start, mode))
}

func (s *Searcher) search(from, prevEnd int) bool {
	e := s.engine
	e.stats.searches.Add(1)
	s.state.SetPrevEnd(prevEnd)
	if e.prefilter == nil || s.haystack == nil {
		return s.finish(s.state.FindFrom(from))
	}
	found := s.state.FindWith(from, s.candidate)
	if found {
		e.stats.hits.Add(1)
		if s.tracker != nil {
			s.tracker.ConfirmMatch()
		}
	}
	return s.finish(found)
}

// candidate is the next function handed to nfa.State.FindWith.
func (s *Searcher) candidate(p int) int {
	if s.tracker == nil {
		c := s.engine.prefilter.Find(s.haystack, p)
		if c >= 0 {
			s.engine.stats.candidates.Add(1)
		}
		return c
	}
	if !s.tracker.IsActive() {
		return p
	}
	c := s.tracker.Find(s.haystack, p)
	if !s.tracker.IsActive() {
		s.engine.stats.abandoned.Add(1)
		return p
	}
	if c >= 0 {
		s.engine.stats.candidates.Add(1)
	}
	return c
}

func (s *Searcher) finish(found bool) bool {
	if !found {
		if s.state.Err() != nil {
			s.engine.stats.aborts.Add(1)
		}
		s.fail()
		return false
	}
	s.first, s.last = s.state.Group(0)
	s.matched = true
	return true
}

func (s *Searcher) fail() {
	s.matched = false
}

// Matched reports whether the last operation found a match.
func (s *Searcher) Matched() bool {
	return s.matched
}

// Start returns the start of the last match, or -1.
func (s *Searcher) Start() int {
	if !s.matched {
		return -1
	}
	start, _ := s.state.Group(0)
	return start
}

// End returns the end of the last match, or -1.
func (s *Searcher) End() int {
	if !s.matched {
		return -1
	}
	_, end := s.state.Group(0)
	return end
}

// Err returns the error that aborted the last operation, if any.
func (s *Searcher) Err() error {
	return s.state.Err()
}
