// Package syntax parses regular expressions written in the
// java.util.regex dialect into syntax trees.
//
// The dialect covers literals and escapes, character classes with nested
// unions and && intersections, Unicode properties, anchors, capturing,
// named, non-capturing and atomic groups, lookahead and lookbehind,
// greedy, reluctant and possessive quantifiers, numeric and named
// back-references, inline flags, and the COMMENTS and LITERAL modes.
package syntax

import (
	"slices"
	"strconv"
	"unicode/utf16"
)

// foldMask selects the flags that change how a literal compares.
const foldMask = CaseInsensitive | UnicodeCase | UnicodeCharacterClass

// Parse parses pattern under flags and returns its syntax tree. Errors are
// of type *Error.
func Parse(pattern string, flags Flags) (*Regexp, error) {
	if flags&UnicodeCharacterClass != 0 {
		flags |= UnicodeCase
	}
	p := &parser{
		pattern: pattern,
		src:     []rune(pattern),
		flags:   flags,
		names:   make(map[string]int),
	}
	if flags&Literal != 0 {
		return p.literal(p.src, 0), nil
	}
	re, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.more() {
		// parseAlternation only stops early at ')'.
		return nil, p.error(ErrUnmatchedParen, p.pos)
	}
	for _, ref := range p.refs {
		if ref.Cap > p.ncap {
			return nil, p.errorDetail(ErrInvalidBackref, "\\"+strconv.Itoa(ref.Cap), ref.Pos)
		}
	}
	return re, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, flags Flags) *Regexp {
	re, err := Parse(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

type parser struct {
	pattern string
	src     []rune
	pos     int
	flags   Flags
	ncap    int
	names   map[string]int
	refs    []*Regexp // numeric back-references, checked once every group is known
}

func (p *parser) error(code ErrorCode, index int) error {
	return &Error{Code: code, Pattern: p.pattern, Index: index}
}

func (p *parser) errorDetail(code ErrorCode, detail string, index int) error {
	return &Error{Code: code, Detail: detail, Pattern: p.pattern, Index: index}
}

func (p *parser) more() bool { return p.pos < len(p.src) }

func (p *parser) peek() rune { return p.peekAt(0) }

func (p *parser) peekAt(k int) rune {
	if p.pos+k < len(p.src) {
		return p.src[p.pos+k]
	}
	return -1
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) node(op Op, pos int) *Regexp {
	return &Regexp{Op: op, Flags: p.flags, Pos: pos}
}

func (p *parser) literal(runes []rune, pos int) *Regexp {
	if len(runes) == 0 {
		return p.node(OpEmpty, pos)
	}
	re := p.node(OpLiteral, pos)
	re.Runes = runes
	return re
}

func (p *parser) class(cls *Class, pos int) *Regexp {
	re := p.node(OpClass, pos)
	re.Class = cls
	return re
}

func (p *parser) assert(kind AssertKind, pos int) *Regexp {
	re := p.node(OpAssert, pos)
	re.Assert = kind
	return re
}

// skipComments skips whitespace and #-comments in COMMENTS mode.
func (p *parser) skipComments() {
	if p.flags&Comments == 0 {
		return
	}
	for p.more() {
		switch c := p.peek(); {
		case c == '#':
			for p.more() && !isLineTerminator(p.peek()) {
				p.pos++
			}
		case isPatternSpace(c):
			p.pos++
		default:
			return
		}
	}
}

func isPatternSpace(c rune) bool {
	return c == ' ' || '\t' <= c && c <= '\r'
}

func isLineTerminator(c rune) bool {
	return c == '\n' || c == '\r' || c == 0x85 || c == 0x2028 || c == 0x2029
}

func isDigit(c rune) bool { return '0' <= c && c <= '9' }

func (p *parser) parseAlternation() (*Regexp, error) {
	start := p.pos
	var branches []*Regexp
	for {
		br, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, br)
		if p.peek() != '|' {
			break
		}
		p.pos++
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	re := p.node(OpAlternate, start)
	re.Sub = branches
	return re, nil
}

func (p *parser) parseConcat() (*Regexp, error) {
	start := p.pos
	var items []*Regexp
	for {
		p.skipComments()
		if !p.more() || p.peek() == '|' || p.peek() == ')' {
			break
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		// A quantifier after \Q...\E binds to the last quoted character.
		if atom.Op == OpLiteral && len(atom.Runes) > 1 {
			n := len(atom.Runes) - 1
			items = append(items, p.literal(atom.Runes[:n], atom.Pos))
			atom = p.literal(atom.Runes[n:], atom.Pos+n)
		}
		atom, err = p.parseQuantifier(atom)
		if err != nil {
			return nil, err
		}
		items = append(items, atom)
	}
	return p.concat(items, start), nil
}

// concat joins items, merging adjacent literals that fold the same way.
func (p *parser) concat(items []*Regexp, pos int) *Regexp {
	var out []*Regexp
	for _, it := range items {
		if it.Op == OpEmpty {
			continue
		}
		if n := len(out); n > 0 && it.Op == OpLiteral && out[n-1].Op == OpLiteral &&
			it.Flags&foldMask == out[n-1].Flags&foldMask {
			out[n-1].Runes = append(slices.Clip(out[n-1].Runes), it.Runes...)
			continue
		}
		out = append(out, it)
	}
	switch len(out) {
	case 0:
		return p.node(OpEmpty, pos)
	case 1:
		return out[0]
	}
	re := p.node(OpConcat, pos)
	re.Sub = out
	return re
}

func (p *parser) parseAtom() (*Regexp, error) {
	pos := p.pos
	c := p.next()
	switch c {
	case '(':
		return p.parseGroup(pos)
	case '[':
		cls, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return p.class(cls, pos), nil
	case '.':
		return p.node(OpAnyChar, pos), nil
	case '^':
		return p.assert(AssertBeginLine, pos), nil
	case '$':
		return p.assert(AssertEndLine, pos), nil
	case '\\':
		return p.parseEscape(pos)
	case '*', '+', '?':
		return nil, p.errorDetail(ErrDanglingMeta, "'"+string(c)+"'", pos)
	case '{':
		return nil, p.error(ErrIllegalRepetition, pos)
	}
	return p.literal([]rune{c}, pos), nil
}

func (p *parser) parseQuantifier(atom *Regexp) (*Regexp, error) {
	p.skipComments()
	pos := p.pos
	var lo, hi int
	switch p.peek() {
	case '?':
		lo, hi = 0, 1
	case '*':
		lo, hi = 0, Inf
	case '+':
		lo, hi = 1, Inf
	case '{':
		p.pos++
		if lo = p.parseInt(); lo < 0 {
			return nil, p.error(ErrIllegalRepetition, pos)
		}
		hi = lo
		if p.peek() == ',' {
			p.pos++
			if p.peek() == '}' {
				hi = Inf
			} else if hi = p.parseInt(); hi < 0 {
				return nil, p.error(ErrUnclosedCount, p.pos)
			}
		}
		if p.peek() != '}' {
			return nil, p.error(ErrUnclosedCount, p.pos)
		}
		if lo > MaxRepeat || hi > MaxRepeat {
			return nil, p.error(ErrRepetitionTooLarge, pos)
		}
		if hi != Inf && lo > hi {
			return nil, p.error(ErrRepetitionRange, p.pos)
		}
	default:
		return atom, nil
	}
	p.pos++
	policy := Greedy
	switch p.peek() {
	case '?':
		policy = Reluctant
		p.pos++
	case '+':
		policy = Possessive
		p.pos++
	}
	re := p.node(OpRepeat, pos)
	re.Sub = []*Regexp{atom}
	re.Min, re.Max, re.Policy = lo, hi, policy
	return re, nil
}

// parseInt reads a decimal number, saturating above MaxRepeat. It returns
// -1 when no digit is present.
func (p *parser) parseInt() int {
	if !isDigit(p.peek()) {
		return -1
	}
	n := 0
	for isDigit(p.peek()) {
		if n <= MaxRepeat {
			n = n*10 + int(p.next()-'0')
		} else {
			p.pos++
		}
	}
	return n
}

// parseGroup parses what follows '(' at pos. It returns nil for a bare
// inline flag group such as (?i).
func (p *parser) parseGroup(pos int) (*Regexp, error) {
	saved := p.flags
	if p.peek() != '?' {
		p.ncap++
		re := p.node(OpCapture, pos)
		re.Cap = p.ncap
		body, err := p.groupBody()
		if err != nil {
			return nil, err
		}
		re.Sub = []*Regexp{body}
		return re, nil
	}
	p.pos++
	if !p.more() {
		return nil, p.error(ErrUnknownGroupType, p.pos)
	}
	switch c := p.next(); c {
	case ':':
		body, err := p.groupBody()
		if err != nil {
			return nil, err
		}
		return p.nonCapture(body), nil
	case '=', '!':
		return p.look(pos, false, c == '!')
	case '>':
		re := p.node(OpAtomic, pos)
		body, err := p.groupBody()
		if err != nil {
			return nil, err
		}
		re.Sub = []*Regexp{body}
		return re, nil
	case '<':
		switch p.peek() {
		case '=', '!':
			return p.look(pos, true, p.next() == '!')
		}
		name, err := p.parseName('>')
		if err != nil {
			return nil, err
		}
		if _, dup := p.names[name]; dup {
			return nil, p.errorDetail(ErrDuplicateGroupName, "<"+name+">", pos)
		}
		p.ncap++
		p.names[name] = p.ncap
		re := p.node(OpCapture, pos)
		re.Cap, re.Name = p.ncap, name
		body, err := p.groupBody()
		if err != nil {
			return nil, err
		}
		re.Sub = []*Regexp{body}
		return re, nil
	}
	p.pos--
	return p.parseFlagGroup(saved)
}

// parseFlagGroup parses (?on-off) and (?on-off:X). The flags of a bare
// (?on-off) stay in effect until the enclosing group closes.
func (p *parser) parseFlagGroup(saved Flags) (*Regexp, error) {
	on := true
	for {
		if !p.more() {
			return nil, p.error(ErrUnclosedGroup, len(p.src))
		}
		pos := p.pos
		c := p.next()
		switch c {
		case '-':
			if !on {
				return nil, p.error(ErrUnknownFlag, pos)
			}
			on = false
		case ')':
			return nil, nil
		case ':':
			body, err := p.groupBody()
			p.flags = saved
			if err != nil {
				return nil, err
			}
			return p.nonCapture(body), nil
		default:
			f, ok := flagForLetter(c)
			if !ok {
				return nil, p.errorDetail(ErrUnknownFlag, "'"+string(c)+"'", pos)
			}
			if f == UnicodeCharacterClass {
				f |= UnicodeCase
			}
			if on {
				p.flags |= f
			} else {
				p.flags &^= f
			}
		}
	}
}

// groupBody parses a group body up to and including its ')'. Flags set
// inside the group do not leak out of it.
func (p *parser) groupBody() (*Regexp, error) {
	saved := p.flags
	body, err := p.parseAlternation()
	p.flags = saved
	if err != nil {
		return nil, err
	}
	if p.peek() != ')' {
		return nil, p.error(ErrUnclosedGroup, len(p.src))
	}
	p.pos++
	return body, nil
}

// nonCapture keeps a multi-rune literal body intact as the operand of a
// following quantifier.
func (p *parser) nonCapture(body *Regexp) *Regexp {
	if body.Op != OpLiteral || len(body.Runes) < 2 {
		return body
	}
	re := p.node(OpConcat, body.Pos)
	re.Sub = []*Regexp{body}
	return re
}

func (p *parser) look(pos int, behind, negate bool) (*Regexp, error) {
	re := p.node(OpLook, pos)
	re.Behind, re.Negate = behind, negate
	body, err := p.groupBody()
	if err != nil {
		return nil, err
	}
	re.Sub = []*Regexp{body}
	return re, nil
}

// parseName reads a group name terminated by end. Names start with an
// ASCII letter followed by ASCII letters or digits.
func (p *parser) parseName(end rune) (string, error) {
	start := p.pos
	for p.more() && p.peek() != end {
		c := p.next()
		letter := 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
		if !letter && (p.pos-1 == start || !isDigit(c)) {
			return "", p.error(ErrBadGroupName, p.pos-1)
		}
	}
	if !p.more() || p.pos == start {
		return "", p.error(ErrBadGroupName, p.pos)
	}
	name := string(p.src[start:p.pos])
	p.pos++
	return name, nil
}

func (p *parser) parseEscape(pos int) (*Regexp, error) {
	if !p.more() {
		return nil, p.error(ErrUnexpectedEnd, pos)
	}
	c := p.next()
	switch c {
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// Further digits extend the number while it names a group opened so
		// far; the rest are literal digits.
		ref := int(c - '0')
		for isDigit(p.peek()) {
			n := ref*10 + int(p.peek()-'0')
			if n > p.ncap {
				break
			}
			ref = n
			p.pos++
		}
		re := p.node(OpBackref, pos)
		re.Cap = ref
		p.refs = append(p.refs, re)
		return re, nil
	case 'k':
		if p.peek() != '<' {
			return nil, p.error(ErrIllegalEscape, pos)
		}
		p.pos++
		name, err := p.parseName('>')
		if err != nil {
			return nil, err
		}
		idx, ok := p.names[name]
		if !ok {
			return nil, p.errorDetail(ErrUnknownGroupName, "<"+name+">", pos)
		}
		re := p.node(OpBackref, pos)
		re.Cap = idx
		return re, nil
	case 'b':
		return p.assert(AssertWordBoundary, pos), nil
	case 'B':
		return p.assert(AssertNoWordBoundary, pos), nil
	case 'A':
		return p.assert(AssertBeginText, pos), nil
	case 'G':
		return p.assert(AssertPrevMatchEnd, pos), nil
	case 'Z':
		return p.assert(AssertEndTextOptEOL, pos), nil
	case 'z':
		return p.assert(AssertEndText, pos), nil
	case 'Q':
		start := p.pos
		for p.more() && !(p.peek() == '\\' && p.peekAt(1) == 'E') {
			p.pos++
		}
		quoted := append([]rune(nil), p.src[start:p.pos]...)
		if p.more() {
			p.pos += 2
		}
		return p.literal(quoted, start), nil
	case 'R':
		// \R is (?>\r\n|[\n\x0B\f\r\x85\u2028\u2029]).
		crlf := p.literal([]rune{'\r', '\n'}, pos)
		crlf.Flags &^= foldMask
		alt := p.node(OpAlternate, pos)
		alt.Sub = []*Regexp{crlf, p.class(verticalSpaceClass(), pos)}
		re := p.node(OpAtomic, pos)
		re.Sub = []*Regexp{alt}
		return re, nil
	case 'd', 'D', 's', 'S', 'w', 'W', 'h', 'H', 'v', 'V', 'p', 'P':
		cls, err := p.escapeClass(c, pos)
		if err != nil {
			return nil, err
		}
		return p.class(cls, pos), nil
	}
	r, err := p.escapeChar(c, pos)
	if err != nil {
		return nil, err
	}
	return p.literal([]rune{r}, pos), nil
}

// escapeClass parses the class escapes \d \D \s \S \w \W \h \H \v \V
// \p{..} and \P{..}; c has been consumed.
func (p *parser) escapeClass(c rune, pos int) (*Class, error) {
	uni := p.flags&UnicodeCharacterClass != 0
	switch c {
	case 'd':
		return digitClass(uni), nil
	case 'D':
		return negated(digitClass(uni)), nil
	case 's':
		return spaceClass(uni), nil
	case 'S':
		return negated(spaceClass(uni)), nil
	case 'w':
		return wordClass(uni), nil
	case 'W':
		return negated(wordClass(uni)), nil
	case 'h':
		return horizontalSpaceClass(), nil
	case 'H':
		return negated(horizontalSpaceClass()), nil
	case 'v':
		return verticalSpaceClass(), nil
	case 'V':
		return negated(verticalSpaceClass()), nil
	}
	var name string
	switch {
	case p.peek() == '{':
		p.pos++
		start := p.pos
		for p.more() && p.peek() != '}' {
			p.pos++
		}
		if !p.more() {
			return nil, p.error(ErrUnknownProperty, pos)
		}
		name = string(p.src[start:p.pos])
		p.pos++
	case p.more():
		name = string(p.next())
	default:
		return nil, p.error(ErrIllegalEscape, pos)
	}
	set, ok := lookupProperty(name)
	if !ok {
		return nil, p.errorDetail(ErrUnknownProperty, "{"+name+"}", pos)
	}
	set.Negate = c == 'P'
	return &Class{Sets: []Set{set}}, nil
}

// escapeChar decodes a single-character escape; c has been consumed.
func (p *parser) escapeChar(c rune, pos int) (rune, error) {
	switch c {
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'a':
		return '\a', nil
	case 'e':
		return 0x1B, nil
	case 'c':
		if !p.more() {
			return 0, p.error(ErrIllegalControl, pos)
		}
		return p.next() ^ 64, nil
	case '0':
		return p.parseOctal(pos)
	case 'x':
		return p.parseHex(pos)
	case 'u':
		return p.parseUnicode(pos)
	}
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || isDigit(c) {
		return 0, p.error(ErrIllegalEscape, pos)
	}
	return c, nil
}

// parseOctal reads \0n, \0nn or \0mnn (m <= 3).
func (p *parser) parseOctal(pos int) (rune, error) {
	isOct := func(c rune) bool { return '0' <= c && c <= '7' }
	if !isOct(p.peek()) {
		return 0, p.error(ErrIllegalOctal, pos)
	}
	n := p.next() - '0'
	if isOct(p.peek()) {
		n = n*8 + p.next() - '0'
		if n < 040 && isOct(p.peek()) {
			n = n*8 + p.next() - '0'
		}
	}
	return n, nil
}

func hexValue(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// parseHex reads \xhh or \x{h...h}.
func (p *parser) parseHex(pos int) (rune, error) {
	if p.peek() == '{' {
		p.pos++
		n, digits := 0, 0
		for p.more() && p.peek() != '}' {
			v := hexValue(p.next())
			if v < 0 {
				return 0, p.error(ErrIllegalHex, pos)
			}
			if n = n<<4 | v; n > 0x10FFFF {
				return 0, p.error(ErrIllegalHex, pos)
			}
			digits++
		}
		if !p.more() || digits == 0 {
			return 0, p.error(ErrIllegalHex, pos)
		}
		p.pos++
		return rune(n), nil
	}
	hi, lo := hexValue(p.peekAt(0)), hexValue(p.peekAt(1))
	if hi < 0 || lo < 0 {
		return 0, p.error(ErrIllegalHex, pos)
	}
	p.pos += 2
	return rune(hi<<4 | lo), nil
}

// parseUnicode reads \uhhhh. A high surrogate escape followed by a low
// surrogate escape yields the supplementary code point.
func (p *parser) parseUnicode(pos int) (rune, error) {
	r, ok := p.hex4()
	if !ok {
		return 0, p.error(ErrIllegalUnicode, pos)
	}
	if utf16.IsSurrogate(r) && r < 0xDC00 && p.peek() == '\\' && p.peekAt(1) == 'u' {
		save := p.pos
		p.pos += 2
		if lo, ok := p.hex4(); ok && 0xDC00 <= lo && lo < 0xE000 {
			return utf16.DecodeRune(r, lo), nil
		}
		p.pos = save
	}
	return r, nil
}

func (p *parser) hex4() (rune, bool) {
	n := 0
	for i := 0; i < 4; i++ {
		v := hexValue(p.peekAt(i))
		if v < 0 {
			return 0, false
		}
		n = n<<4 | v
	}
	p.pos += 4
	return rune(n), true
}

// parseClass parses a class body; the opening '[' has been consumed.
func (p *parser) parseClass() (*Class, error) {
	cls := &Class{}
	if p.peek() == '^' {
		p.pos++
		cls.Negate = true
	}
	target := cls
	first := true
	for {
		p.skipComments()
		if !p.more() {
			return nil, p.error(ErrUnclosedClass, len(p.src)-1)
		}
		switch c := p.peek(); {
		case c == ']' && !first:
			p.pos++
			return cls, nil
		case c == '[':
			p.pos++
			sub, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			target.Union = append(target.Union, sub)
		case c == '&' && p.peekAt(1) == '&':
			p.pos += 2
			op := &Class{}
			cls.And = append(cls.And, op)
			target = op
		default:
			if err := p.parseClassItem(target); err != nil {
				return nil, err
			}
		}
		first = false
	}
}

func (p *parser) parseClassItem(target *Class) error {
	lo, sub, err := p.classAtom()
	if err != nil {
		return err
	}
	if sub != nil {
		if sub.Negate || len(sub.And) > 0 {
			target.Union = append(target.Union, sub)
		} else {
			target.merge(sub)
		}
		return nil
	}
	if p.peek() == '-' {
		switch p.peekAt(1) {
		case ']', '[', -1:
		default:
			p.pos++
			pos := p.pos
			hi, sub, err := p.classAtom()
			if err != nil {
				return err
			}
			if sub != nil || hi < lo {
				return p.error(ErrIllegalRange, pos)
			}
			target.addRange(lo, hi)
			return nil
		}
	}
	target.addRange(lo, lo)
	return nil
}

// classAtom reads one class member: a character or a class escape.
func (p *parser) classAtom() (rune, *Class, error) {
	pos := p.pos
	c := p.next()
	if c != '\\' {
		return c, nil, nil
	}
	if !p.more() {
		return 0, nil, p.error(ErrUnexpectedEnd, pos)
	}
	switch e := p.next(); e {
	case 'd', 'D', 's', 'S', 'w', 'W', 'h', 'H', 'v', 'V', 'p', 'P':
		cls, err := p.escapeClass(e, pos)
		return 0, cls, err
	case 'Q':
		// Quoted text inside a class is a union of its characters.
		cls := &Class{}
		for p.more() && !(p.peek() == '\\' && p.peekAt(1) == 'E') {
			r := p.next()
			cls.addRange(r, r)
		}
		if p.more() {
			p.pos += 2
		}
		return 0, cls, nil
	default:
		r, err := p.escapeChar(e, pos)
		return r, nil, err
	}
}
