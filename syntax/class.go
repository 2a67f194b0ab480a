package syntax

import (
	"slices"
	"unicode"
)

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// Set is a named code point set such as \p{Lu} or \w. Exactly one of Table
// and Fn is non-nil.
type Set struct {
	Name   string
	Table  *unicode.RangeTable
	Fn     func(rune) bool
	Negate bool
}

// Contains reports whether r is in the set.
func (s Set) Contains(r rune) bool {
	var in bool
	if s.Table != nil {
		in = unicode.Is(s.Table, r)
	} else {
		in = s.Fn(r)
	}
	return in != s.Negate
}

// Class is a character class. Its members are the union of Ranges, Sets and
// Union; that union is then intersected with every class in And, and the
// result is complemented when Negate is set.
//
//	[a-c\d[xyz]&&[^b]]  =>  Ranges{a-c}, Sets{\d}, Union{[xyz]}, And{[^b]}
type Class struct {
	Negate bool
	Ranges []Range
	Sets   []Set
	Union  []*Class
	And    []*Class
}

// Contains reports whether r is a member of c.
func (c *Class) Contains(r rune) bool {
	in := c.unionContains(r)
	for _, a := range c.And {
		if !in {
			break
		}
		in = a.Contains(r)
	}
	return in != c.Negate
}

func (c *Class) unionContains(r rune) bool {
	_, found := slices.BinarySearchFunc(c.Ranges, r, func(rg Range, r rune) int {
		switch {
		case rg.Hi < r:
			return -1
		case rg.Lo > r:
			return 1
		}
		return 0
	})
	if found {
		return true
	}
	for _, s := range c.Sets {
		if s.Contains(r) {
			return true
		}
	}
	for _, u := range c.Union {
		if u.Contains(r) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether r, or any rune in its simple case folding
// orbit, is in c. With unicodeCase false only ASCII letters fold.
func (c *Class) ContainsFold(r rune, unicodeCase bool) bool {
	if c.Contains(r) {
		return true
	}
	if !unicodeCase {
		if o, ok := asciiOther(r); ok {
			return c.Contains(o)
		}
		return false
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if c.Contains(f) {
			return true
		}
	}
	return false
}

// Single returns the only member of c when c is a positive class of exactly
// one code point.
func (c *Class) Single() (rune, bool) {
	if c.Negate || len(c.Sets) > 0 || len(c.Union) > 0 || len(c.And) > 0 ||
		len(c.Ranges) != 1 || c.Ranges[0].Lo != c.Ranges[0].Hi {
		return 0, false
	}
	return c.Ranges[0].Lo, true
}

// addRange adds [lo, hi] keeping Ranges sorted and merged.
func (c *Class) addRange(lo, hi rune) {
	i, _ := slices.BinarySearchFunc(c.Ranges, lo, func(rg Range, lo rune) int {
		return int(rg.Lo - lo)
	})
	c.Ranges = slices.Insert(c.Ranges, i, Range{lo, hi})
	merged := c.Ranges[:0]
	for _, rg := range c.Ranges {
		if n := len(merged); n > 0 && rg.Lo <= merged[n-1].Hi+1 {
			merged[n-1].Hi = max(merged[n-1].Hi, rg.Hi)
			continue
		}
		merged = append(merged, rg)
	}
	c.Ranges = merged
}

// merge folds the members of o into c. o must not be negated or carry
// intersections.
func (c *Class) merge(o *Class) {
	for _, rg := range o.Ranges {
		c.addRange(rg.Lo, rg.Hi)
	}
	c.Sets = append(c.Sets, o.Sets...)
	c.Union = append(c.Union, o.Union...)
}

func (c *Class) isEmpty() bool {
	return len(c.Ranges) == 0 && len(c.Sets) == 0 && len(c.Union) == 0
}

// asciiOther returns the other-case counterpart of an ASCII letter.
func asciiOther(r rune) (rune, bool) {
	switch {
	case 'a' <= r && r <= 'z':
		return r - 'a' + 'A', true
	case 'A' <= r && r <= 'Z':
		return r - 'A' + 'a', true
	}
	return 0, false
}

// EqualFold reports whether a and b are equal under ASCII case folding, or
// under Unicode simple case folding when unicodeCase is set.
func EqualFold(a, b rune, unicodeCase bool) bool {
	if a == b {
		return true
	}
	if !unicodeCase {
		o, ok := asciiOther(a)
		return ok && o == b
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// FoldOrbit returns r followed by every other rune EqualFold reports equal
// to it.
func FoldOrbit(r rune, unicodeCase bool) []rune {
	orbit := []rune{r}
	if !unicodeCase {
		if o, ok := asciiOther(r); ok {
			orbit = append(orbit, o)
		}
		return orbit
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	return orbit
}
