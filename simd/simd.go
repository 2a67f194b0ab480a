// Package simd provides word-parallel byte and substring search used by the
// literal prefilters and by the UTF-8 input implementation.
//
// Every routine has a portable SWAR (SIMD Within A Register) implementation
// that processes 8 bytes per iteration. On CPUs where the Go runtime ships a
// vectorized IndexByte (AVX2/SSE4.2 on x86-64, ASIMD on arm64) single-byte
// search for longer haystacks is routed there instead.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// vectorMinLen is the haystack length from which the runtime's vector
// IndexByte beats the SWAR loop.
const vectorMinLen = 32

var hasVector = cpu.X86.HasAVX2 || cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o')
//	// pos == 4
func Memchr(haystack []byte, needle byte) int {
	if hasVector && len(haystack) >= vectorMinLen {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2Generic(haystack, needle1, needle2)
}

// IsASCII reports whether every byte in data is below 0x80.
func IsASCII(data []byte) bool {
	return isASCIIGeneric(data)
}

// HasVector reports whether the vectorized single-byte path is active.
func HasVector() bool {
	return hasVector
}
