package sparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVisit(t *testing.T) {
	s := New(8)
	for _, v := range []uint32{3, 0, 7, 3} {
		s.Visit(v)
	}
	if diff := cmp.Diff([]uint32{3, 0, 7}, s.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if s.Visit(0) {
		t.Error("Visit(0) = true for a member")
	}
	if !s.Visit(5) {
		t.Error("Visit(5) = false for a new value")
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestContains(t *testing.T) {
	s := New(4)
	s.Visit(2)
	tests := []struct {
		v    uint32
		want bool
	}{
		{2, true},
		{1, false},
		{3, false},
		{4, false},
		{1 << 31, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClear(t *testing.T) {
	s := New(16)
	for v := uint32(0); v < 16; v++ {
		s.Visit(v)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after Clear", s.Len())
	}
	// Stale sparse slots must not leak old members back in.
	for v := uint32(0); v < 16; v++ {
		if s.Contains(v) {
			t.Errorf("Contains(%d) after Clear", v)
		}
	}
	s.Visit(9)
	if !s.Contains(9) || s.Contains(0) {
		t.Error("set not usable after Clear")
	}
	if s.Cap() != 16 {
		t.Errorf("Cap() = %d, want 16", s.Cap())
	}
}

func TestVisitOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Visit past capacity did not panic")
		}
	}()
	New(2).Visit(2)
}
