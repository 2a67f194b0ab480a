package literal

import (
	"unicode/utf8"

	"github.com/coregx/btregex/syntax"
)

// maxDepth bounds the recursion over deeply nested patterns.
const maxDepth = 100

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations and case folding
//   - MaxLiteralLen: long literals add search cost without filtering better
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the size of any intermediate literal set.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal in bytes.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// [abc] is expanded to ["a", "b", "c"]; classes with more members make
	// the prefix set infinite. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor computes prefix literal sets from parsed patterns.
//
// The result is sound: every match of the pattern starts with at least one
// literal of the set, or the set is infinite. Zero-width elements such as
// anchors, \b and lookaround are transparent. Constructs whose first code
// point cannot be enumerated (., large classes, back-references) end the
// prefix at that point.
//
// Example:
//
//	re, _ := syntax.Parse("(?:foo|bar)\\d+", 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// prefixes = [I("foo"), I("bar")]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals every match of re begins with. The
// result is minimized and truncated to MaxLiteralLen. It is infinite when
// no finite set within the limits exists.
//
// Examples:
//
//	"hello"          → [E("hello")]
//	"(?:foo|bar)x"   → [E("foox"), E("barx")]
//	"[ab]c"          → [E("ac"), E("bc")]
//	"(?i)ok"         → [E("ok"), E("oK"), E("Ok"), E("OK")]
//	"a*b"            → [I("a"), E("b")]
//	".*foo"          → [I("")]
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	seq := e.prefixes(re, 0)
	if seq.IsFinite() {
		seq.KeepFirst(e.config.MaxLiteralLen)
		seq.Minimize()
	}
	return seq
}

func (e *Extractor) prefixes(re *syntax.Regexp, depth int) *Seq {
	if depth > maxDepth {
		return Infinite()
	}
	switch re.Op {
	case syntax.OpEmpty, syntax.OpAssert, syntax.OpLook:
		return emptySeq()

	case syntax.OpLiteral:
		return e.literal(re)

	case syntax.OpClass:
		return e.expandClass(re)

	case syntax.OpCapture, syntax.OpAtomic:
		return e.prefixes(re.Sub[0], depth+1)

	case syntax.OpConcat:
		acc := emptySeq()
		for _, sub := range re.Sub {
			if !anyComplete(acc) {
				break
			}
			next := e.prefixes(sub, depth+1)
			if !acc.Cross(next, e.config.MaxLiterals) {
				acc.MakeInexact()
				break
			}
		}
		return acc

	case syntax.OpAlternate:
		acc := NewSeq()
		for _, sub := range re.Sub {
			acc.Union(e.prefixes(sub, depth+1))
			if !acc.IsFinite() || acc.Len() > e.config.MaxLiterals {
				return Infinite()
			}
		}
		return acc

	case syntax.OpRepeat:
		if re.Max == 0 {
			return emptySeq()
		}
		seq := e.prefixes(re.Sub[0], depth+1)
		if !seq.IsFinite() {
			return seq
		}
		if re.Max != 1 {
			seq.MakeInexact()
		}
		if re.Min == 0 {
			seq.Union(emptySeq())
		}
		return seq
	}
	// OpAnyChar, OpBackref.
	return Infinite()
}

// literal expands a literal run. Under case folding every code point
// contributes its fold orbit. When the expansion grows past MaxLiterals the
// literal is cut at the last code point that fit.
func (e *Extractor) literal(re *syntax.Regexp) *Seq {
	acc := emptySeq()
	fold, uni := re.FoldCase(), re.UnicodeFold()
	for _, r := range re.Runes {
		alts, ok := runeSeq(r, fold, uni)
		if !ok || !acc.Cross(alts, e.config.MaxLiterals) {
			acc.MakeInexact()
			break
		}
	}
	return acc
}

// expandClass expands a small positive class to one literal per member.
func (e *Extractor) expandClass(re *syntax.Regexp) *Seq {
	c := re.Class
	if c.Negate || len(c.Sets) > 0 || len(c.Union) > 0 || len(c.And) > 0 {
		return Infinite()
	}
	count := 0
	for _, rg := range c.Ranges {
		count += int(rg.Hi-rg.Lo) + 1
		if count > e.config.MaxClassSize {
			return Infinite()
		}
	}
	seen := make(map[rune]bool)
	seq := NewSeq()
	for _, rg := range c.Ranges {
		for r := rg.Lo; r <= rg.Hi; r++ {
			alts, ok := runeSeq(r, re.FoldCase(), re.UnicodeFold())
			if !ok {
				return Infinite()
			}
			for _, lit := range alts.literals {
				dr, _ := utf8.DecodeRune(lit.Bytes)
				if !seen[dr] {
					seen[dr] = true
					seq.literals = append(seq.literals, lit)
				}
			}
		}
	}
	if seq.Len() > e.config.MaxLiterals {
		return Infinite()
	}
	return seq
}

// runeSeq returns the UTF-8 encodings of r and, under folding, of the runes
// that fold to it. Surrogates and U+FFFD are rejected: the matcher reads
// them where the byte input holds other encodings.
func runeSeq(r rune, fold, unicodeCase bool) (*Seq, bool) {
	orbit := []rune{r}
	if fold {
		orbit = syntax.FoldOrbit(r, unicodeCase)
	}
	seq := NewSeq()
	for _, o := range orbit {
		if o == utf8.RuneError || !utf8.ValidRune(o) {
			return nil, false
		}
		seq.literals = append(seq.literals, NewLiteral(utf8.AppendRune(nil, o), true))
	}
	return seq, true
}

// emptySeq returns the set holding only the complete empty literal, the
// identity of Cross.
func emptySeq() *Seq {
	return NewSeq(NewLiteral([]byte{}, true))
}

func anyComplete(s *Seq) bool {
	for _, lit := range s.Literals() {
		if lit.Complete {
			return true
		}
	}
	return false
}
