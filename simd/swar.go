package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = uint64(0x0101010101010101)
	hi8 = uint64(0x8080808080808080)
)

// zeroBytes marks the high bit of every zero byte in v
// ((v - 0x01..01) & ^v & 0x80..80, Hacker's Delight).
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// memchrGeneric searches 8 bytes at a time: the needle is broadcast to
// every lane, XOR turns matching lanes into zero bytes and the first zero
// lane is located with a trailing-zero count.
func memchrGeneric(haystack []byte, needle byte) int {
	n := len(haystack)
	idx := 0
	if n >= 8 {
		mask := uint64(needle) * lo8
		for ; idx+8 <= n; idx += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[idx:])
			if z := zeroBytes(chunk ^ mask); z != 0 {
				return idx + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; idx < n; idx++ {
		if haystack[idx] == needle {
			return idx
		}
	}
	return -1
}

func memchr2Generic(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	idx := 0
	if n >= 8 {
		mask1 := uint64(needle1) * lo8
		mask2 := uint64(needle2) * lo8
		for ; idx+8 <= n; idx += 8 {
			chunk := binary.LittleEndian.Uint64(haystack[idx:])
			if z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); z != 0 {
				return idx + bits.TrailingZeros64(z)/8
			}
		}
	}
	for ; idx < n; idx++ {
		if b := haystack[idx]; b == needle1 || b == needle2 {
			return idx
		}
	}
	return -1
}

// exactZeroBytes is zeroBytes without borrow propagation: a 0x01 byte above
// a zero byte is not flagged. Needed when scanning for the highest lane.
func exactZeroBytes(v uint64) uint64 {
	const lo7 = uint64(0x7f7f7f7f7f7f7f7f)
	return ^(((v & lo7) + lo7) | v | lo7)
}

// memrchrGeneric is memchrGeneric run from the end; the last zero lane is
// found with a leading-zero count.
func memrchrGeneric(haystack []byte, needle byte) int {
	idx := len(haystack)
	if idx >= 8 {
		mask := uint64(needle) * lo8
		for ; idx-8 >= 0; idx -= 8 {
			chunk := binary.LittleEndian.Uint64(haystack[idx-8:])
			if z := exactZeroBytes(chunk ^ mask); z != 0 {
				return idx - 8 + (63-bits.LeadingZeros64(z))/8
			}
		}
	}
	for idx--; idx >= 0; idx-- {
		if haystack[idx] == needle {
			return idx
		}
	}
	return -1
}

func isASCIIGeneric(data []byte) bool {
	n := len(data)
	idx := 0
	for ; idx+8 <= n; idx += 8 {
		if binary.LittleEndian.Uint64(data[idx:])&hi8 != 0 {
			return false
		}
	}
	for ; idx < n; idx++ {
		if data[idx] >= 0x80 {
			return false
		}
	}
	return true
}
