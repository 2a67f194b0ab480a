package meta

import (
	"context"
	"sync"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/literal"
	"github.com/coregx/btregex/nfa"
	"github.com/coregx/btregex/prefilter"
	"github.com/coregx/btregex/syntax"
)

// Engine is a compiled pattern: the node graph, the prefilter built from
// its literal prefixes, and the configuration.
//
// Thread safety: an Engine is immutable after compilation apart from its
// statistics, which are updated atomically. Any number of goroutines may
// run Searchers over the same Engine. Pooled Searchers are available
// through GetSearcher and PutSearcher, following the stdlib regexp pattern.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`, 0)
//	if err != nil {
//	    return err
//	}
//	s := engine.GetSearcher(input.String("test foo123 end"))
//	defer engine.PutSearcher(s)
//	if s.Next() {
//	    fmt.Println(s.Start(), s.End()) // 5 11
//	}
type Engine struct {
	stats counters

	prog      *nfa.Program
	prefilter prefilter.Prefilter
	config    Config

	pool sync.Pool
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string, flags syntax.Flags) (*Engine, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration. Syntax
// errors are returned as *syntax.Error, invalid configurations as
// *ConfigError.
func CompileWithConfig(pattern string, flags syntax.Flags, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	prog, err := nfa.CompileRegexp(re, pattern, flags)
	if err != nil {
		return nil, err
	}
	return NewEngine(re, prog, config), nil
}

// NewEngine wraps a program compiled from re. The configuration must be
// valid.
func NewEngine(re *syntax.Regexp, prog *nfa.Program, config Config) *Engine {
	e := &Engine{prog: prog, config: config}
	if config.EnablePrefilter && !prog.Anchored() {
		extractor := literal.New(literal.ExtractorConfig{
			MaxLiterals:   config.MaxLiterals,
			MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
			MaxClassSize:  literal.DefaultConfig().MaxClassSize,
		})
		prefixes := extractor.ExtractPrefixes(re)
		e.prefilter = prefilter.NewBuilder(prefixes).WithMinLen(config.MinLiteralLen).Build()
	}
	return e
}

// Program returns the compiled node graph.
func (e *Engine) Program() *nfa.Program {
	return e.prog
}

// Prefilter returns the prefilter in use, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// NumGroups returns the number of capture groups including group 0.
func (e *Engine) NumGroups() int {
	return e.prog.NumGroups()
}

// SubexpNames returns the names of the capture groups. Index 0 is always
// "" (entire match). Unnamed groups return "".
func (e *Engine) SubexpNames() []string {
	return e.prog.GroupNames()
}

// IsStartAnchored reports whether every match must start at the beginning
// of the input (\A or ^ outside multiline mode).
func (e *Engine) IsStartAnchored() bool {
	return e.prog.Anchored()
}

// GetSearcher returns a pooled Searcher bound to in. The caller must hand
// it back with PutSearcher and must not use it afterwards.
func (e *Engine) GetSearcher(in input.Input) *Searcher {
	if s, ok := e.pool.Get().(*Searcher); ok {
		s.Reset(in)
		return s
	}
	return e.NewSearcher(in)
}

// PutSearcher returns s to the pool.
func (e *Engine) PutSearcher(s *Searcher) {
	s.SetContext(nil)
	s.Reset(nil)
	e.pool.Put(s)
}

// FindAll calls fn with the group spans of every successive match in in,
// as the Java find() loop reports them, until fn returns false or n
// matches have been reported (n < 0 means no limit). The spans slice is
// reused between calls. The error is non-nil when a search aborted.
func (e *Engine) FindAll(ctx context.Context, in input.Input, n int, fn func(spans []int) bool) error {
	s := e.GetSearcher(in)
	defer e.PutSearcher(s)
	s.SetContext(ctx)

	var spans []int
	for i := 0; n < 0 || i < n; i++ {
		if !s.Next() {
			return s.Err()
		}
		spans = s.State().AppendGroups(spans[:0])
		if !fn(spans) {
			break
		}
	}
	return nil
}
