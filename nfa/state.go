package nfa

import (
	"context"

	"github.com/coregx/btregex/input"
)

// Mode selects where a match may end.
type Mode uint8

const (
	// ModeFind accepts a match ending anywhere.
	ModeFind Mode = iota

	// ModeMatch accepts only a match ending at the right bound.
	ModeMatch
)

const (
	// DefaultMaxDepth bounds the recursion depth of a single match
	// attempt. Each level costs a few hundred bytes of goroutine stack.
	DefaultMaxDepth = 200_000

	// DefaultCancelCheckInterval is the number of node visits between
	// context checks.
	DefaultCancelCheckInterval = 4096
)

// State is the mutable side of a match: capture positions, loop counters,
// consumption slots, the search region and the hitEnd/requireEnd flags.
//
// A State is bound to one Program and one Input at a time and is not safe
// for concurrent use. The Program it runs is never modified.
type State struct {
	prog  *Program
	nodes []Node
	in    input.Input

	leftBound         int
	rightBound        int
	anchoringBounds   bool
	transparentBounds bool
	mode              Mode
	prevEnd           int

	// groups holds start/end pairs; -1 means unset.
	groups []int
	// consumed holds, per group-like node, the entry position while the
	// node is active and the consumed length once it has closed. -1 marks
	// a loop body that has not run yet.
	consumed []int
	counters []int
	// saved is a stack of capture snapshots taken by atomic groups and
	// lookarounds.
	saved []int

	hitEnd     bool
	requireEnd bool

	ctx        context.Context
	checkEvery int
	steps      int
	depth      int
	maxDepth   int
	err        error
}

// NewState returns a State for running prog over in.
func NewState(prog *Program, in input.Input) *State {
	s := &State{
		prog:       prog,
		nodes:      prog.nodes,
		groups:     make([]int, 2*prog.groups),
		consumed:   make([]int, prog.consumers),
		counters:   make([]int, prog.counters),
		maxDepth:   DefaultMaxDepth,
		checkEvery: DefaultCancelCheckInterval,
	}
	s.Reset(in)
	return s
}

// Reset binds the State to a new input. The region becomes the whole
// input, anchoring bounds are on, transparent bounds are off, and all
// captures are cleared.
func (s *State) Reset(in input.Input) {
	s.in = in
	s.leftBound, s.rightBound = 0, 0
	if in != nil {
		s.rightBound = in.Len()
	}
	s.anchoringBounds = true
	s.transparentBounds = false
	s.prevEnd = 0
	s.clear(ModeFind)
}

// Input returns the bound input.
func (s *State) Input() input.Input {
	return s.in
}

// Program returns the program the State runs.
func (s *State) Program() *Program {
	return s.prog
}

// SetRegion restricts matching to [start, end). The caller guarantees
// 0 <= start <= end <= Input().Len(). Captures are cleared and \G is
// reset to start.
func (s *State) SetRegion(start, end int) {
	s.leftBound, s.rightBound = start, end
	s.prevEnd = start
	s.clear(ModeFind)
}

// Region returns the current region.
func (s *State) Region() (start, end int) {
	return s.leftBound, s.rightBound
}

// SetAnchoringBounds controls whether ^, $, \A and \z treat the region
// edges as the edges of the input.
func (s *State) SetAnchoringBounds(b bool) {
	s.anchoringBounds = b
}

// AnchoringBounds reports whether anchoring bounds are in effect.
func (s *State) AnchoringBounds() bool {
	return s.anchoringBounds
}

// SetTransparentBounds controls whether lookaround and \b may see input
// outside the region.
func (s *State) SetTransparentBounds(b bool) {
	s.transparentBounds = b
}

// TransparentBounds reports whether transparent bounds are in effect.
func (s *State) TransparentBounds() bool {
	return s.transparentBounds
}

// SetPrevEnd sets the position \G matches at.
func (s *State) SetPrevEnd(pos int) {
	s.prevEnd = pos
}

// SetContext installs a context polled during matching. A nil context
// disables polling.
func (s *State) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// SetLimits sets the recursion depth limit and the context polling
// interval. Values <= 0 select the defaults.
func (s *State) SetLimits(maxDepth, checkEvery int) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if checkEvery <= 0 {
		checkEvery = DefaultCancelCheckInterval
	}
	s.maxDepth, s.checkEvery = maxDepth, checkEvery
}

// Group returns the span of group i from the last operation, or -1, -1
// when the group did not participate.
func (s *State) Group(i int) (start, end int) {
	start, end = s.groups[2*i], s.groups[2*i+1]
	if start < 0 || end < 0 {
		return -1, -1
	}
	return start, end
}

// AppendGroups appends the start/end pairs of every group to dst.
func (s *State) AppendGroups(dst []int) []int {
	for i := 0; i < len(s.groups); i += 2 {
		st, en := s.Group(i / 2)
		dst = append(dst, st, en)
	}
	return dst
}

// HitEnd reports whether the last operation read past the right bound.
func (s *State) HitEnd() bool {
	return s.hitEnd
}

// RequireEnd reports whether more input could turn the last successful
// match into a failure.
func (s *State) RequireEnd() bool {
	return s.requireEnd
}

// Err returns the error that aborted the last operation: ErrStackExhausted
// or the context's error. It is nil after a normal success or failure.
func (s *State) Err() error {
	return s.err
}

// MatchAt reports whether the pattern matches starting exactly at pos. In
// ModeMatch the match must also end at the right bound.
func (s *State) MatchAt(pos int, mode Mode) bool {
	s.clear(mode)
	if pos < s.leftBound || pos > s.rightBound {
		return false
	}
	return s.run(func() int {
		return s.matchAt(s.prog.start, pos)
	}) >= 0
}

// FindFrom searches for the leftmost match starting at or after from.
func (s *State) FindFrom(from int) bool {
	s.clear(ModeFind)
	from = max(from, s.leftBound)
	if from > s.rightBound {
		return false
	}
	return s.run(func() int {
		if s.prog.anchored {
			return s.matchAt(s.prog.start, from)
		}
		return s.nodes[s.prog.start].find(s, from)
	}) >= 0
}

// FindWith is FindFrom with candidate start positions supplied by next:
// next(p) returns the first position >= p where a match may start, or -1
// when none can. Positions next skips are never tried.
func (s *State) FindWith(from int, next func(int) int) bool {
	s.clear(ModeFind)
	from = max(from, s.leftBound)
	if from > s.rightBound {
		return false
	}
	return s.run(func() int {
		for p := from; p <= s.rightBound; {
			c := next(p)
			if c < 0 || c > s.rightBound {
				// The rest of the input cannot match, but more input
				// could complete a candidate.
				s.hitEnd = true
				return -1
			}
			if s.in.Boundary(c) && s.matchAt(s.prog.start, c) >= 0 {
				return c
			}
			if c >= s.rightBound {
				break
			}
			_, w := s.in.Step(c)
			p = c + max(w, 1)
		}
		return -1
	}) >= 0
}

// clear resets the per-operation state.
func (s *State) clear(mode Mode) {
	for i := range s.groups {
		s.groups[i] = -1
	}
	for i := range s.consumed {
		s.consumed[i] = -1
	}
	clear(s.counters)
	s.saved = s.saved[:0]
	s.hitEnd, s.requireEnd = false, false
	s.mode = mode
	s.depth, s.steps = 0, 0
	s.err = nil
}

// run calls fn, converting an abort raised anywhere below into s.err and
// a failed result.
func (s *State) run(fn func() int) (res int) {
	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			s.err = a.err
			for i := range s.groups {
				s.groups[i] = -1
			}
			res = -1
		}
	}()
	return fn()
}

// matchAt runs node id at pos. Every transition between nodes goes
// through here, so the depth limit and cancellation are enforced in one
// place.
func (s *State) matchAt(id NodeID, pos int) int {
	s.depth++
	if s.depth > s.maxDepth {
		panic(abort{ErrStackExhausted})
	}
	if s.ctx != nil {
		s.steps++
		if s.steps >= s.checkEvery {
			s.steps = 0
			if err := s.ctx.Err(); err != nil {
				panic(abort{err})
			}
		}
	}
	res := s.nodes[id].matches(s, pos)
	s.depth--
	return res
}

// step decodes the code point at pos if it lies entirely inside the
// right bound. Reading at or past the bound records hitEnd.
func (s *State) step(pos int) (rune, int) {
	if pos >= s.rightBound {
		s.hitEnd = true
		return 0, 0
	}
	r, w := s.in.Step(pos)
	if pos+w > s.rightBound {
		s.hitEnd = true
		return 0, 0
	}
	return r, w
}

// scan is the default find: try matches at every code point boundary
// from from up to and including the right bound.
func (s *State) scan(id NodeID, from int) int {
	p := from
	for p < s.rightBound && !s.in.Boundary(p) {
		p++
	}
	for p <= s.rightBound {
		if s.matchAt(id, p) >= 0 {
			return p
		}
		if p == s.rightBound {
			break
		}
		_, w := s.in.Step(p)
		p += max(w, 1)
	}
	return -1
}

// scanBack is the default findBack: try matches at every code point
// boundary from to down to from.
func (s *State) scanBack(id NodeID, from, to int) int {
	p := to
	for p > from && !s.in.Boundary(p) {
		p--
	}
	for p >= from {
		if s.matchAt(id, p) >= 0 {
			return p
		}
		if p == from {
			break
		}
		_, w := s.in.StepBack(p)
		p -= max(w, 1)
	}
	return -1
}

// anchorLeft and anchorRight are the positions ^, \A, $ and \z treat as
// the edges of the input.
func (s *State) anchorLeft() int {
	if s.anchoringBounds {
		return s.leftBound
	}
	return 0
}

func (s *State) anchorRight() int {
	if s.anchoringBounds {
		return s.rightBound
	}
	return s.in.Len()
}

// lookLeft and lookRight are the edges visible to lookaround and \b.
func (s *State) lookLeft() int {
	if s.transparentBounds {
		return 0
	}
	return s.leftBound
}

func (s *State) lookRight() int {
	if s.transparentBounds {
		return s.in.Len()
	}
	return s.rightBound
}

// saveGroups pushes the spans of gs and returns a mark for restoreGroups
// or dropSaved.
func (s *State) saveGroups(gs []int) int {
	mark := len(s.saved)
	for _, g := range gs {
		s.saved = append(s.saved, s.groups[2*g], s.groups[2*g+1])
	}
	return mark
}

func (s *State) restoreGroups(gs []int, mark int) {
	i := mark
	for _, g := range gs {
		s.groups[2*g], s.groups[2*g+1] = s.saved[i], s.saved[i+1]
		i += 2
	}
	s.saved = s.saved[:mark]
}

func (s *State) dropSaved(mark int) {
	s.saved = s.saved[:mark]
}
