package prefilter

// Tracker watches how often a prefilter's candidates turn into matches.
//
// For a backtracking matcher every rejected candidate costs a full match
// attempt on top of the prefilter scan. When the share of confirmed
// candidates in a window falls below a threshold, the tracker retires the
// prefilter and the searcher falls back to trying every position. A
// retired tracker stays retired until Reset.
//
// A Tracker is not safe for concurrent use; each Searcher owns one.
//
//	t := prefilter.NewTracker(pf)
//	for start <= len(haystack) {
//	    pos := start
//	    if t.IsActive() {
//	        if pos = t.Find(haystack, start); pos == -1 {
//	            if !t.IsActive() {
//	                pos = start // retired: scan every position
//	            } else {
//	                break
//	            }
//	        }
//	    }
//	    if matchesAt(haystack, pos) {
//	        t.ConfirmMatch()
//	        return pos
//	    }
//	    start = pos + 1
//	}
type Tracker struct {
	inner  Prefilter
	policy TrackerPolicy

	total TrackerStats

	// Counters for the window under evaluation.
	winCandidates uint64
	winConfirms   uint64
}

// TrackerPolicy decides when a prefilter is retired.
type TrackerPolicy struct {
	// Warmup is the number of candidates seen before any evaluation.
	Warmup uint64

	// Window is the number of candidates per evaluation once warm.
	Window uint64

	// MinRatio is the lowest acceptable confirms/candidates ratio within
	// a window.
	MinRatio float64
}

// TrackerStats is a snapshot of a Tracker.
type TrackerStats struct {
	Candidates uint64
	Confirms   uint64
	Retired    bool
}

// Ratio returns Confirms/Candidates, or 0 before the first candidate.
func (s TrackerStats) Ratio() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Confirms) / float64(s.Candidates)
}

// DefaultTrackerPolicy returns the policy used by NewTracker: warm up for
// 128 candidates, then retire when fewer than one in ten of a window of
// 64 candidates is confirmed.
func DefaultTrackerPolicy() TrackerPolicy {
	return TrackerPolicy{Warmup: 128, Window: 64, MinRatio: 0.1}
}

// NewTracker returns a tracker for inner using DefaultTrackerPolicy, or
// nil if inner is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithPolicy(inner, DefaultTrackerPolicy())
}

// NewTrackerWithPolicy returns a tracker for inner, or nil if inner is nil.
func NewTrackerWithPolicy(inner Prefilter, policy TrackerPolicy) *Tracker {
	if inner == nil {
		return nil
	}
	policy.Window = max(policy.Window, 1)
	return &Tracker{inner: inner, policy: policy}
}

// Find returns the next candidate at or after start. It returns -1 when
// there is none and also once the prefilter has been retired; use
// IsActive to tell the two apart.
func (t *Tracker) Find(haystack []byte, start int) int {
	if t.total.Retired {
		return -1
	}
	pos := t.inner.Find(haystack, start)
	if pos < 0 {
		return -1
	}
	t.total.Candidates++
	t.winCandidates++
	t.evaluate()
	if t.total.Retired {
		return -1
	}
	return pos
}

// ConfirmMatch records that the last candidate produced a match.
func (t *Tracker) ConfirmMatch() {
	t.total.Confirms++
	t.winConfirms++
}

// IsActive reports whether the prefilter has not been retired.
func (t *Tracker) IsActive() bool { return !t.total.Retired }

// Stats returns the counts since the last Reset.
func (t *Tracker) Stats() TrackerStats { return t.total }

// Reset clears all counts and reinstates the prefilter.
func (t *Tracker) Reset() {
	t.total = TrackerStats{}
	t.winCandidates, t.winConfirms = 0, 0
}

func (t *Tracker) evaluate() {
	if t.total.Candidates < t.policy.Warmup || t.winCandidates < t.policy.Window {
		return
	}
	ratio := float64(t.winConfirms) / float64(t.winCandidates)
	t.winCandidates, t.winConfirms = 0, 0
	if ratio < t.policy.MinRatio {
		t.total.Retired = true
	}
}
