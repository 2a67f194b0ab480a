// Package meta ties a compiled node graph to the literal prefilter chosen
// for it and to the limits that bound every search.
//
// The Engine is the immutable, shareable part: program, prefilter and
// configuration. A Searcher is the mutable part: one match state bound to
// one input, with its own prefilter effectiveness tracker. The public
// btregex API is a thin layer over the two.
package meta

import "github.com/coregx/btregex/nfa"

// Config controls engine behavior and resource limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.MaxDepth = 10_000 // fail fast on pathological inputs
//	engine, err := meta.CompileWithConfig(`(\w+)\s\1`, 0, config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// When false, every position of the input is tried.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the minimum length in bytes of the shortest prefix
	// literal for a prefilter to be built.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of prefix literals extracted. Prefix
	// sets that would grow past it are not used.
	// Default: 64
	MaxLiterals int

	// MaxDepth bounds the recursion depth of a single match attempt.
	// Deeper attempts abort with nfa.ErrStackExhausted.
	// Default: nfa.DefaultMaxDepth
	MaxDepth int

	// CancelCheckInterval is the number of node visits between checks of
	// a search's context.
	// Default: nfa.DefaultCancelCheckInterval
	CancelCheckInterval int

	// Tracker enables prefilter effectiveness tracking: a prefilter whose
	// candidates rarely turn into matches is retired for the rest of a
	// Searcher's life.
	// Default: true
	Tracker bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:     true,
		MinLiteralLen:       1,
		MaxLiterals:         64,
		MaxDepth:            nfa.DefaultMaxDepth,
		CancelCheckInterval: nfa.DefaultCancelCheckInterval,
		Tracker:             true,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 1,000
//   - MaxDepth: 100 to 100,000,000
//   - CancelCheckInterval: 1 to 1,000,000
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxDepth < 100 || c.MaxDepth > 100_000_000 {
		return &ConfigError{
			Field:   "MaxDepth",
			Message: "must be between 100 and 100,000,000",
		}
	}

	if c.CancelCheckInterval < 1 || c.CancelCheckInterval > 1_000_000 {
		return &ConfigError{
			Field:   "CancelCheckInterval",
			Message: "must be between 1 and 1,000,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "btregex: invalid config: " + e.Field + ": " + e.Message
}
