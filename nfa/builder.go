package nfa

import (
	"fmt"

	"github.com/coregx/btregex/internal/conv"
)

// builder accumulates nodes in an arena. Nodes are added back to front:
// a node's successor always exists before the node itself, except for
// loops, which reserve their slot first and fill it with set once the
// body that jumps back to them has been built.
type builder struct {
	nodes []Node
}

func newBuilder() *builder {
	return &builder{nodes: make([]Node, 0, 16)}
}

// add appends n to the arena and returns its ID.
func (b *builder) add(n Node) NodeID {
	id := NodeID(conv.IntToUint32(len(b.nodes)))
	if id == InvalidNode {
		panic(abort{ErrTooComplex})
	}
	n.bind(id)
	b.nodes = append(b.nodes, n)
	return id
}

// reserve allocates a slot to be filled later with set.
func (b *builder) reserve() NodeID {
	return b.add(&placeholderNode{base: base{next: InvalidNode}})
}

// set replaces the node in a reserved slot.
func (b *builder) set(id NodeID, n Node) {
	n.bind(id)
	b.nodes[id] = n
}

// validate checks that every edge points into the arena and that no
// reserved slot was left unfilled.
func (b *builder) validate() error {
	n := NodeID(len(b.nodes))
	for i, node := range b.nodes {
		id := NodeID(i)
		if node.Kind() == kindPlaceholder {
			return &BuildError{Message: "reserved slot never filled", NodeID: id}
		}
		next := node.Next()
		if next != InvalidNode && next >= n {
			return &BuildError{Message: fmt.Sprintf("successor %d out of range", next), NodeID: id}
		}
		for _, to := range successors(node) {
			if to >= n {
				return &BuildError{Message: fmt.Sprintf("edge to %d out of range", to), NodeID: id}
			}
		}
	}
	return nil
}
