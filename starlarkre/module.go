// Package starlarkre exposes btregex to Starlark as a module shaped like
// Python's re: compile, search, match, fullmatch, findall, split, sub,
// subn and escape, plus Pattern and Match values.
//
// Patterns use btregex (java.util.regex) syntax and flags. Positions are
// byte offsets, like Starlark string indices. Replacement templates use
// the Python forms \1, \g<1> and \g<name>.
//
// If the calling thread has a context.Context in its "context" local (as
// the go.starlark.net REPL sets up), long matches are cancelled with it.
package starlarkre

import (
	"container/list"
	"context"
	"errors"
	"fmt"

	"go.starlark.net/starlark"

	"github.com/coregx/btregex"
)

// maxCacheSize bounds the number of compiled patterns a Module keeps.
const maxCacheSize = 32

// posMax is the default endpos; positions are clamped to the string.
const posMax = int(^uint(0) >> 1)

// Module is the re module value. It caches compiled patterns in an LRU
// list, so it is not safe for concurrent use by several threads.
type Module struct {
	members starlark.StringDict

	lru   *list.List
	cache map[cacheKey]*list.Element
}

type cacheKey struct {
	pattern string
	flags   int
}

type cacheEntry struct {
	key     cacheKey
	pattern *Pattern
}

// NewModule returns a new re module.
func NewModule() *Module {
	flag := func(f btregex.Flags) starlark.Value { return starlark.MakeInt(int(f)) }
	members := starlark.StringDict{
		"NOFLAG":     starlark.MakeInt(0),
		"I":          flag(btregex.CaseInsensitive),
		"IGNORECASE": flag(btregex.CaseInsensitive),
		"M":          flag(btregex.Multiline),
		"MULTILINE":  flag(btregex.Multiline),
		"S":          flag(btregex.DotAll),
		"DOTALL":     flag(btregex.DotAll),
		"X":          flag(btregex.Comments),
		"VERBOSE":    flag(btregex.Comments),
		"U":          flag(btregex.UnicodeCase | btregex.UnicodeCharacterClass),
		"UNICODE":    flag(btregex.UnicodeCase | btregex.UnicodeCharacterClass),
		"LITERAL":    flag(btregex.Literal),
		"UNIX_LINES": flag(btregex.UnixLines),

		"compile":   starlark.NewBuiltin("compile", reCompile),
		"purge":     starlark.NewBuiltin("purge", rePurge),
		"search":    starlark.NewBuiltin("search", reSearch),
		"match":     starlark.NewBuiltin("match", reMatch),
		"fullmatch": starlark.NewBuiltin("fullmatch", reFullmatch),
		"findall":   starlark.NewBuiltin("findall", reFindall),
		"split":     starlark.NewBuiltin("split", reSplit),
		"sub":       starlark.NewBuiltin("sub", reSub),
		"subn":      starlark.NewBuiltin("subn", reSub),
		"escape":    starlark.NewBuiltin("escape", reEscape),
	}
	return &Module{
		members: members,
		lru:     list.New(),
		cache:   make(map[cacheKey]*list.Element),
	}
}

var (
	_ starlark.Value    = (*Module)(nil)
	_ starlark.HasAttrs = (*Module)(nil)
)

func (m *Module) Freeze()               { m.members.Freeze() }
func (m *Module) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", m.Type()) }
func (m *Module) String() string        { return "<module re>" }
func (m *Module) Truth() starlark.Bool  { return true }
func (m *Module) Type() string          { return "module" }

func (m *Module) Attr(name string) (starlark.Value, error) {
	if v, ok := m.members[name]; ok {
		if b, ok := v.(*starlark.Builtin); ok {
			return b.BindReceiver(m), nil
		}
		return v, nil
	}
	return nil, nil
}

func (m *Module) AttrNames() []string { return m.members.Keys() }

// compile returns the cached Pattern for pattern and flags, compiling it
// on a miss and evicting the least recently used entry when full.
func (m *Module) compile(pattern string, flags int) (*Pattern, error) {
	key := cacheKey{pattern, flags}
	if e, ok := m.cache[key]; ok {
		m.lru.MoveToFront(e)
		return e.Value.(*cacheEntry).pattern, nil
	}

	if m.lru.Len() >= maxCacheSize {
		last := m.lru.Back()
		delete(m.cache, last.Value.(*cacheEntry).key)
		m.lru.Remove(last)
	}

	p, err := newPattern(pattern, flags)
	if err != nil {
		return nil, err
	}
	m.cache[key] = m.lru.PushFront(&cacheEntry{key: key, pattern: p})
	return p, nil
}

func (m *Module) purge() {
	m.lru.Init()
	clear(m.cache)
}

// patternParam accepts either a pattern string or a compiled Pattern.
type patternParam struct {
	compiled *Pattern
	raw      string
}

var _ starlark.Unpacker = (*patternParam)(nil)

func (p *patternParam) Unpack(v starlark.Value) error {
	switch t := v.(type) {
	case *Pattern:
		p.compiled = t
	case starlark.String:
		p.raw = string(t)
	default:
		return errors.New("first argument must be string or compiled pattern")
	}
	return nil
}

// compilePattern resolves p through the module cache. The builtin's
// receiver must be the *Module.
func compilePattern(b *starlark.Builtin, p patternParam, flags int) (*Pattern, error) {
	if p.compiled != nil {
		if flags != 0 {
			return nil, errors.New("cannot process flags argument with a compiled pattern")
		}
		return p.compiled, nil
	}
	return b.Receiver().(*Module).compile(p.raw, flags)
}

// threadContext returns the context stored in the thread's "context"
// local, or context.Background.
func threadContext(thread *starlark.Thread) context.Context {
	if thread != nil {
		if ctx, ok := thread.Local("context").(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

func reCompile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "flags?", &flags); err != nil {
		return nil, err
	}
	return compilePattern(b, pattern, flags)
}

func rePurge(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	b.Receiver().(*Module).purge()
	return starlark.None, nil
}

// reSearch returns a Match for the first location where the pattern
// matches, or None.
func reSearch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.search(threadContext(thread), str, 0, posMax)
}

// reMatch returns a Match if the pattern matches at the start of the
// string, or None.
func reMatch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.match(threadContext(thread), str, 0, posMax, false)
}

// reFullmatch returns a Match if the whole string matches, or None.
func reFullmatch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.match(threadContext(thread), str, 0, posMax, true)
}

// reFindall returns every match as a list: whole matches when the pattern
// has no groups, the group text when it has one, and tuples of group
// texts otherwise.
func reFindall(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern patternParam
		str     string
		flags   int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.findall(threadContext(thread), str, 0, posMax)
}

// reSplit splits the string at each match. Group texts are included in the
// result; at most maxsplit splits happen when it is positive.
func reSplit(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern         patternParam
		str             string
		maxSplit, flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "maxsplit?", &maxSplit, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.split(threadContext(thread), str, maxSplit)
}

// reSub replaces matches with repl, a template string or a function of
// the Match. subn also returns the number of replacements.
func reSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern      patternParam
		repl         starlark.Value
		str          string
		count, flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "repl", &repl, "string", &str, "count?", &count, "flags?", &flags); err != nil {
		return nil, err
	}
	p, err := compilePattern(b, pattern, flags)
	if err != nil {
		return nil, err
	}
	return p.sub(thread, repl, str, count, b.Name() == "subn")
}

func reEscape(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern); err != nil {
		return nil, err
	}
	return starlark.String(btregex.QuoteMeta(pattern)), nil
}
