package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack. An empty needle matches at 0.
//
// Candidates are located by searching for the needle's rarest byte (see
// ByteFrequencies) with Memchr; each candidate is then verified in full.
//
// Example:
//
//	pos := simd.Memmem([]byte("aaaaaabaaaa"), []byte("aab"))
//	// pos == 5
func Memmem(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	switch {
	case m == 0:
		return 0
	case m > n:
		return -1
	case m == 1:
		return Memchr(haystack, needle[0])
	}

	rare, rareIdx := rarestByte(needle)
	// The rare byte of a match at s lies at s+rareIdx, so the scan window
	// is haystack[rareIdx : n-m+rareIdx+1].
	start, limit := rareIdx, n-m+rareIdx+1
	for start < limit {
		pos := Memchr(haystack[start:limit], rare)
		if pos < 0 {
			return -1
		}
		cand := start + pos - rareIdx
		if bytes.Equal(haystack[cand:cand+m], needle) {
			return cand
		}
		start += pos + 1
	}
	return -1
}

// MemmemLast returns the index of the last instance of needle in haystack,
// or -1. An empty needle matches at len(haystack).
func MemmemLast(haystack, needle []byte) int {
	n, m := len(haystack), len(needle)
	switch {
	case m == 0:
		return n
	case m > n:
		return -1
	}

	rare, rareIdx := rarestByte(needle)
	start, limit := rareIdx, n-m+rareIdx+1
	for limit > start {
		pos := memrchrGeneric(haystack[start:limit], rare)
		if pos < 0 {
			return -1
		}
		cand := start + pos - rareIdx
		if bytes.Equal(haystack[cand:cand+m], needle) {
			return cand
		}
		limit = start + pos
	}
	return -1
}
