package syntax

import "strings"

// Flags control how a pattern is parsed and matched. The bit values are the
// ones used by java.util.regex.Pattern so flag words can be exchanged with
// Java-based tooling unchanged.
type Flags uint32

const (
	// UnixLines makes '\n' the only line terminator for '.', '^' and '$'.
	UnixLines Flags = 1 << 0

	// CaseInsensitive enables ASCII case-insensitive matching; combine with
	// UnicodeCase for Unicode case folding.
	CaseInsensitive Flags = 1 << 1

	// Comments permits whitespace and #-comments in the pattern.
	Comments Flags = 1 << 2

	// Multiline makes '^' and '$' match at line terminators.
	Multiline Flags = 1 << 3

	// Literal treats the whole pattern as a literal string.
	Literal Flags = 1 << 4

	// DotAll makes '.' match line terminators.
	DotAll Flags = 1 << 5

	// UnicodeCase makes CaseInsensitive use Unicode simple case folding.
	UnicodeCase Flags = 1 << 6

	// UnicodeCharacterClass selects the Unicode versions of \d, \s, \w and
	// \b. It implies UnicodeCase.
	UnicodeCharacterClass Flags = 1 << 8

	// EmptyUnsetBackrefs makes a back-reference to a group that has not
	// participated in the match succeed with an empty match, as in
	// ECMAScript. By default such a back-reference fails.
	EmptyUnsetBackrefs Flags = 1 << 16
)

var flagLetters = []struct {
	c rune
	f Flags
}{
	{'d', UnixLines},
	{'i', CaseInsensitive},
	{'x', Comments},
	{'m', Multiline},
	{'s', DotAll},
	{'u', UnicodeCase},
	{'U', UnicodeCharacterClass},
}

// flagForLetter returns the flag an inline modifier letter stands for.
func flagForLetter(c rune) (Flags, bool) {
	for _, fl := range flagLetters {
		if fl.c == c {
			return fl.f, true
		}
	}
	return 0, false
}

// String returns the inline modifier letters for f, e.g. "im".
// Flags without a letter (Literal, EmptyUnsetBackrefs) are omitted.
func (f Flags) String() string {
	var sb strings.Builder
	for _, fl := range flagLetters {
		if f&fl.f != 0 {
			sb.WriteRune(fl.c)
		}
	}
	return sb.String()
}

// ParseFlags converts modifier letters such as "ims" into Flags.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for i, c := range s {
		fl, ok := flagForLetter(c)
		if !ok {
			return 0, &Error{Code: ErrUnknownFlag, Pattern: s, Index: i}
		}
		f |= fl
	}
	return f, nil
}
