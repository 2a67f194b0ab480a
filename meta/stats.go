package meta

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Stats is a snapshot of execution statistics.
type Stats struct {
	// Searches counts find and match operations.
	Searches uint64

	// PrefilterCandidates counts positions reported by the prefilter.
	PrefilterCandidates uint64

	// PrefilterHits counts prefilter searches that ended in a match.
	PrefilterHits uint64

	// PrefilterAbandoned counts Searchers that retired the prefilter
	// because of a high false positive rate.
	PrefilterAbandoned uint64

	// Aborts counts operations stopped by the depth limit or by context
	// cancellation.
	Aborts uint64
}

// counters are shared by every Searcher of an Engine and padded to their
// own cache lines.
type counters struct {
	_          cpu.CacheLinePad
	searches   atomic.Uint64
	candidates atomic.Uint64
	hits       atomic.Uint64
	abandoned  atomic.Uint64
	aborts     atomic.Uint64
	_          cpu.CacheLinePad
}

// Stats returns execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	fmt.Println("candidates:", stats.PrefilterCandidates)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:            e.stats.searches.Load(),
		PrefilterCandidates: e.stats.candidates.Load(),
		PrefilterHits:       e.stats.hits.Load(),
		PrefilterAbandoned:  e.stats.abandoned.Load(),
		Aborts:              e.stats.aborts.Load(),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	e.stats.searches.Store(0)
	e.stats.candidates.Store(0)
	e.stats.hits.Store(0)
	e.stats.abandoned.Store(0)
	e.stats.aborts.Store(0)
}
