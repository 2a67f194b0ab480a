// Package sparse provides a sparse set of node IDs.
//
// Insertion, membership and clearing are O(1) and the set never has to be
// zeroed between uses, which makes it a good visited set for graph walks
// over a compiled program.
package sparse

// Set is a set of uint32 values below a fixed capacity. dense holds the
// members in insertion order; sparse maps a value to its index in dense.
// The sparse slot of a non-member may hold garbage.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New returns an empty set that can hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Cap returns the capacity the set was created with.
func (s *Set) Cap() int { return len(s.sparse) }

// Len returns the number of members.
func (s *Set) Len() int { return len(s.dense) }

// Contains reports whether v is a member. Values out of range are never
// members.
func (s *Set) Contains(v uint32) bool {
	if int(v) >= len(s.sparse) {
		return false
	}
	i := s.sparse[v]
	return int(i) < len(s.dense) && s.dense[i] == v
}

// Visit inserts v and reports whether it was newly added. It panics if v
// is out of range.
func (s *Set) Visit(v uint32) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = uint32(len(s.dense)) //nolint:gosec // len(dense) < cap(sparse)
	s.dense = append(s.dense, v)
	return true
}

// Values returns the members in insertion order. The slice is valid until
// the next Visit or Clear.
func (s *Set) Values() []uint32 { return s.dense }

// Clear removes every member.
func (s *Set) Clear() { s.dense = s.dense[:0] }
