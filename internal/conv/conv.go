// Package conv holds checked integer narrowing used when sizing the
// compiled program.
package conv

import "math"

// IntToUint32 converts n to uint32, panicking if it does not fit. A
// program that large is a bug in the caller, not bad input.
func IntToUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("conv: int out of uint32 range")
	}
	return uint32(n)
}
