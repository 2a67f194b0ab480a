package nfa

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrStackExhausted indicates that a match recursed deeper than the
	// configured depth limit. The search result is undefined; the state is
	// left ready for the next operation.
	ErrStackExhausted = errors.New("backtracking stack exhausted")

	// ErrTooComplex indicates the compiled node graph exceeds internal limits
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidNode indicates a node references an ID outside the graph
	ErrInvalidNode = errors.New("invalid node ID")
)

// CompileError represents an error during node graph compilation
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("node graph compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("node graph compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents a malformed graph found while sealing the builder
type BuildError struct {
	Message string
	NodeID  NodeID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.NodeID != InvalidNode {
		return fmt.Sprintf("graph build error at node %d: %s", e.NodeID, e.Message)
	}
	return "graph build error: " + e.Message
}

// Unwrap lets errors.Is match ErrInvalidNode for dangling references.
func (e *BuildError) Unwrap() error {
	return ErrInvalidNode
}

// abort carries an error out of a deep recursion via panic. It never
// escapes the package: State.run recovers it into State.Err.
type abort struct {
	err error
}
