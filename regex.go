// Package btregex provides a backtracking regular expression engine with
// java.util.regex semantics.
//
// Unlike the standard regexp package, btregex supports back-references,
// lookahead and lookbehind, atomic groups and possessive quantifiers. The
// price is the usual one for backtracking engines: some patterns take
// exponential time on some inputs. Matching is bounded by a recursion depth
// limit, and every blocking operation has a context-aware variant that can
// be cancelled.
//
// Basic usage:
//
//	re := btregex.MustCompile(`(\w)\1`)
//	if re.MatchString("hello") {
//	    fmt.Println(re.FindString("hello")) // "ll"
//	}
//
// Java-style stateful matching goes through a Matcher:
//
//	m := re.Matcher("aabbcc")
//	for m.Find() {
//	    fmt.Println(m.Start(), m.Group(1))
//	}
//
// Positions are offsets in the code units of the input: bytes for strings
// and byte slices, 16-bit units for UTF-16 input.
//
// # Aborted searches
//
// A search aborts when it recurses deeper than Config.MaxDepth or when its
// context is cancelled. The methods shaped like the regexp package (Match,
// MatchString and the Find, ReplaceAll and Split families) have no error
// result, so for them an abort reads as no match from the point where it
// happened. Use FindAllStringContext, the Matcher Context methods or
// Matcher.Err to tell an abort from a real miss.
package btregex

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/meta"
	"github.com/coregx/btregex/syntax"
)

// Flags modify how a pattern is parsed and matched. The values are those of
// java.util.regex.Pattern.
type Flags = syntax.Flags

// Compilation flags.
const (
	UnixLines             = syntax.UnixLines
	CaseInsensitive       = syntax.CaseInsensitive
	Comments              = syntax.Comments
	Multiline             = syntax.Multiline
	Literal               = syntax.Literal
	DotAll                = syntax.DotAll
	UnicodeCase           = syntax.UnicodeCase
	UnicodeCharacterClass = syntax.UnicodeCharacterClass
	EmptyUnsetBackrefs    = syntax.EmptyUnsetBackrefs
)

// Config controls prefiltering and resource limits. See meta.Config.
type Config = meta.Config

// Stats holds matching statistics of a compiled pattern.
type Stats = meta.Stats

// Regex is a compiled regular expression.
//
// A Regex is safe for concurrent use by multiple goroutines. A Matcher is
// not; create one per goroutine.
type Regex struct {
	engine  *meta.Engine
	pattern string
	flags   Flags
}

// Regexp is an alias for Regex, for code written against the standard
// library.
type Regexp = Regex

// Compile parses a regular expression and returns a Regex that can be used
// to match against text.
//
// Example:
//
//	re, err := btregex.Compile(`(?<year>\d{4})-\k<year>`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, 0, DefaultConfig())
}

// CompileFlags is Compile with compilation flags, e.g.
// CaseInsensitive|Multiline.
func CompileFlags(pattern string, flags Flags) (*Regex, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig())
}

// CompileWithConfig compiles pattern with flags and a custom configuration.
//
// Example:
//
//	config := btregex.DefaultConfig()
//	config.MaxDepth = 10_000
//	re, err := btregex.CompileWithConfig(`(a|aa)+$`, 0, config)
func CompileWithConfig(pattern string, flags Flags, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, flags, config)
	if err != nil {
		return nil, err
	}
	return &Regex{
		engine:  engine,
		pattern: pattern,
		flags:   flags,
	}, nil
}

// MustCompile is like Compile but panics if the expression cannot be
// parsed. It simplifies safe initialization of global variables.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("btregex: Compile(%s): %v", strconv.Quote(pattern), err))
	}
	return re
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a
// regular expression matching the literal text.
//
// Example:
//
//	btregex.QuoteMeta("1+1=2?") // `1\+1=2\?`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	var sb strings.Builder
	sb.Grow(len(s) * 2)
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Flags returns the flags the expression was compiled with.
func (r *Regex) Flags() Flags {
	return r.flags
}

// NumSubexp returns the number of capturing groups in the expression,
// not counting the whole match.
func (r *Regex) NumSubexp() int {
	return r.engine.NumGroups() - 1
}

// SubexpNames returns the names of the capturing groups. The name of
// group i is SubexpNames()[i]; index 0 (the whole match) and unnamed
// groups have the empty name.
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// SubexpIndex returns the index of the group with the given name, or -1
// if there is no such group.
func (r *Regex) SubexpIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range r.engine.SubexpNames() {
		if n == name {
			return i
		}
	}
	return -1
}

// Stats returns the matching statistics accumulated by the expression.
func (r *Regex) Stats() Stats {
	return r.engine.Stats()
}

// ResetStats zeroes the matching statistics.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}

// Matcher returns a Matcher over s.
func (r *Regex) Matcher(s string) *Matcher {
	return newMatcher(r, input.String(s))
}

// MatcherBytes returns a Matcher over b. The slice must not be modified
// while the Matcher is in use.
func (r *Regex) MatcherBytes(b []byte) *Matcher {
	return newMatcher(r, input.Bytes(b))
}

// MatcherUTF16 returns a Matcher over UTF-16 text. Positions reported by
// the Matcher are indices into u.
func (r *Regex) MatcherUTF16(u []uint16) *Matcher {
	return newMatcher(r, input.UTF16(u))
}

// Match reports whether b contains any match of the expression.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) Match(b []byte) bool {
	return r.first(input.Bytes(b), false) != nil
}

// MatchString reports whether s contains any match of the expression. Use
// Matcher(s).Matches() to require the whole string to match.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) MatchString(s string) bool {
	return r.first(input.String(s), false) != nil
}

// Find returns the leftmost match in b, or nil if there is none.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) Find(b []byte) []byte {
	loc := r.first(input.Bytes(b), false)
	if loc == nil {
		return nil
	}
	return b[loc[0]:loc[1]:loc[1]]
}

// FindIndex returns the location of the leftmost match in b, or nil.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) FindIndex(b []byte) []int {
	return r.first(input.Bytes(b), false)
}

// FindString returns the text of the leftmost match in s. It returns ""
// both for no match and for an empty match; use FindStringIndex to tell
// them apart.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) FindString(s string) string {
	loc := r.first(input.String(s), false)
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

// FindStringIndex returns the location of the leftmost match in s as a
// two-element slice, or nil if there is no match.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) FindStringIndex(s string) []int {
	return r.first(input.String(s), false)
}

// FindStringSubmatch returns the text of the leftmost match and of its
// groups. Groups that did not participate are "".
//
// Example:
//
//	re := btregex.MustCompile(`(\w+)@(\w+)\.com`)
//	re.FindStringSubmatch("mail: john@example.com")
//	// []string{"john@example.com", "john", "example"}
//
// An aborted search reports no match (see Aborted searches).
func (r *Regex) FindStringSubmatch(s string) []string {
	spans := r.first(input.String(s), true)
	if spans == nil {
		return nil
	}
	return submatchStrings(s, spans)
}

// FindStringSubmatchIndex returns the start/end pairs of the leftmost match
// and of its groups, with -1 for groups that did not participate.
// An aborted search reports no match (see Aborted searches).
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.first(input.String(s), true)
}

// FindAllString returns successive matches in s, at most n of them when
// n >= 0. An empty match directly after a previous match is reported, as
// java.util.regex.Matcher.find does.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) FindAllString(s string, n int) []string {
	var out []string
	r.all(input.String(s), n, func(spans []int) {
		out = append(out, s[spans[0]:spans[1]])
	})
	return out
}

// FindAllStringIndex is the index version of FindAllString.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	var out [][]int
	r.all(input.String(s), n, func(spans []int) {
		out = append(out, []int{spans[0], spans[1]})
	})
	return out
}

// FindAllIndex is FindAllStringIndex for byte slices.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	var out [][]int
	r.all(input.Bytes(b), n, func(spans []int) {
		out = append(out, []int{spans[0], spans[1]})
	})
	return out
}

// FindAllStringSubmatch is the submatch version of FindAllString.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) FindAllStringSubmatch(s string, n int) [][]string {
	var out [][]string
	r.all(input.String(s), n, func(spans []int) {
		out = append(out, submatchStrings(s, spans))
	})
	return out
}

// FindAllStringSubmatchIndex is the index version of
// FindAllStringSubmatch.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	var out [][]int
	r.all(input.String(s), n, func(spans []int) {
		out = append(out, append([]int(nil), spans...))
	})
	return out
}

// FindAllStringContext is FindAllString with cancellation. It returns the
// matches found before an abort together with the error that stopped the
// search (the context's error or nfa.ErrStackExhausted).
func (r *Regex) FindAllStringContext(ctx context.Context, s string, n int) ([]string, error) {
	var out []string
	err := r.engine.FindAll(ctx, input.String(s), n, func(spans []int) bool {
		out = append(out, s[spans[0]:spans[1]])
		return true
	})
	return out, err
}

// ReplaceAllString returns a copy of src with every match replaced by repl.
// Inside repl, $n and ${name} stand for the text of a group and a
// backslash escapes the next character, as in
// java.util.regex.Matcher.replaceAll. References to groups that do not
// exist expand to the empty string.
//
// Example:
//
//	re := btregex.MustCompile(`(\w+)@(\w+)`)
//	re.ReplaceAllString("me@home", "$2 at ${1}") // "home at me"
//
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) ReplaceAllString(src, repl string) string {
	var sb strings.Builder
	last := 0
	matched := false
	r.all(input.String(src), -1, func(spans []int) {
		matched = true
		sb.WriteString(src[last:spans[0]])
		r.expand(&sb, repl, src, spans)
		last = spans[1]
	})
	if !matched {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// ReplaceAllLiteralString returns a copy of src with every match replaced
// by repl, which is used verbatim.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) ReplaceAllLiteralString(src, repl string) string {
	return r.ReplaceAllStringFunc(src, func(string) string { return repl })
}

// ReplaceAllStringFunc returns a copy of src in which every match has been
// replaced by the result of repl applied to the matched text. The result
// is substituted verbatim.
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) ReplaceAllStringFunc(src string, repl func(string) string) string {
	var sb strings.Builder
	last := 0
	matched := false
	r.all(input.String(src), -1, func(spans []int) {
		matched = true
		sb.WriteString(src[last:spans[0]])
		sb.WriteString(repl(src[spans[0]:spans[1]]))
		last = spans[1]
	})
	if !matched {
		return src
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// Expand appends template to dst with group references replaced by the
// text of the corresponding groups of the match described by spans, using
// the ReplaceAllString syntax. spans is a result of FindStringSubmatchIndex
// on src.
func (r *Regex) Expand(dst []byte, template, src string, spans []int) []byte {
	var sb strings.Builder
	r.expand(&sb, template, src, spans)
	return append(dst, sb.String()...)
}

// Split slices s into substrings separated by the expression and returns
// the substrings between those matches, with the conventions of
// regexp.Regexp.Split:
//
//	n > 0: at most n substrings; the last is the unsplit remainder
//	n == 0: nil
//	n < 0: all substrings
//
// Example:
//
//	btregex.MustCompile(`a*`).Split("abaabaccadaaae", 5) // ["", "b", "b", "c", "cadaaae"]
//
// An aborted search keeps only the matches found before the abort
// (see Aborted searches).
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if len(r.pattern) > 0 && len(s) == 0 {
		return []string{""}
	}

	// Empty matches adjacent to the previous match are skipped, as the
	// standard library does, so that "a*" splits "baaac" like regexp.
	var matches [][]int
	prevEnd := -1
	_ = r.engine.FindAll(context.Background(), input.String(s), -1, func(spans []int) bool {
		if spans[0] == spans[1] && spans[0] == prevEnd {
			return true
		}
		matches = append(matches, []int{spans[0], spans[1]})
		prevEnd = spans[1]
		return n < 0 || len(matches) < n
	})
	out := make([]string, 0, len(matches))

	beg, end := 0, 0
	for _, match := range matches {
		if n > 0 && len(out) == n-1 {
			break
		}
		end = match[0]
		if match[1] != 0 {
			out = append(out, s[beg:end])
		}
		beg = match[1]
	}
	if end != len(s) {
		out = append(out, s[beg:])
	}
	return out
}

// first returns the leftmost match of in: the whole-match span, or every
// group span when submatch is set. It returns nil when there is no match
// or the search aborted.
func (r *Regex) first(in input.Input, submatch bool) []int {
	s := r.engine.GetSearcher(in)
	defer r.engine.PutSearcher(s)

	if !s.Next() {
		return nil
	}
	if !submatch {
		return []int{s.Start(), s.End()}
	}
	return s.State().AppendGroups(nil)
}

// all calls fn for every successive match. An aborted search ends the
// iteration early.
func (r *Regex) all(in input.Input, n int, fn func(spans []int)) {
	_ = r.engine.FindAll(context.Background(), in, n, func(spans []int) bool {
		fn(spans)
		return true
	})
}

// expand writes template to sb, substituting group references.
func (r *Regex) expand(sb *strings.Builder, template, src string, spans []int) {
	ngroups := len(spans) / 2
	group := func(i int) {
		if i < 0 || i >= ngroups || spans[2*i] < 0 {
			return
		}
		sb.WriteString(src[spans[2*i]:spans[2*i+1]])
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && i+1 < len(template):
			i++
			sb.WriteByte(template[i])
		case c == '$' && i+1 < len(template) && template[i+1] == '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				sb.WriteString(template[i:])
				return
			}
			name := template[i+2 : i+2+end]
			if idx, err := strconv.Atoi(name); err == nil {
				group(idx)
			} else {
				group(r.SubexpIndex(name))
			}
			i += end + 2
		case c == '$' && i+1 < len(template) && isDigit(template[i+1]):
			// The first digit always belongs to the reference; further
			// digits are taken while they still name an existing group.
			i++
			idx := int(template[i] - '0')
			for i+1 < len(template) && isDigit(template[i+1]) {
				next := idx*10 + int(template[i+1]-'0')
				if next >= ngroups {
					break
				}
				idx = next
				i++
			}
			group(idx)
		default:
			sb.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// submatchStrings converts group spans over s to group texts.
func submatchStrings(s string, spans []int) []string {
	out := make([]string, len(spans)/2)
	for i := range out {
		if spans[2*i] >= 0 {
			out[i] = s[spans[2*i]:spans[2*i+1]]
		}
	}
	return out
}
