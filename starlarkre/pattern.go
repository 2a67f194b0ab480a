package starlarkre

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/coregx/btregex"
)

// Pattern is a compiled regular expression as a Starlark value.
type Pattern struct {
	re    *btregex.Regex
	flags int
}

func newPattern(pattern string, flags int) (*Pattern, error) {
	re, err := btregex.CompileFlags(pattern, btregex.Flags(flags))
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re, flags: flags}, nil
}

var (
	_ starlark.Value      = (*Pattern)(nil)
	_ starlark.HasAttrs   = (*Pattern)(nil)
	_ starlark.Comparable = (*Pattern)(nil)
)

func (p *Pattern) String() string {
	if p.flags == 0 {
		return fmt.Sprintf("re.compile(%s)", starlark.String(p.re.String()))
	}
	return fmt.Sprintf("re.compile(%s, %d)", starlark.String(p.re.String()), p.flags)
}

func (p *Pattern) Type() string          { return "pattern" }
func (p *Pattern) Freeze()               {}
func (p *Pattern) Truth() starlark.Bool  { return true }
func (p *Pattern) Hash() (uint32, error) { return starlark.String(p.re.String()).Hash() }

var patternMethods = map[string]*starlark.Builtin{
	"search":    starlark.NewBuiltin("search", patternSearch),
	"match":     starlark.NewBuiltin("match", patternMatch),
	"fullmatch": starlark.NewBuiltin("fullmatch", patternFullmatch),
	"findall":   starlark.NewBuiltin("findall", patternFindall),
	"split":     starlark.NewBuiltin("split", patternSplit),
	"sub":       starlark.NewBuiltin("sub", patternSub),
	"subn":      starlark.NewBuiltin("subn", patternSub),
}

var patternMembers = map[string]func(p *Pattern) starlark.Value{
	"pattern": func(p *Pattern) starlark.Value { return starlark.String(p.re.String()) },
	"flags":   func(p *Pattern) starlark.Value { return starlark.MakeInt(p.flags) },
	"groups":  func(p *Pattern) starlark.Value { return starlark.MakeInt(p.re.NumSubexp()) },
	"groupindex": func(p *Pattern) starlark.Value {
		names := p.re.SubexpNames()
		gi := starlark.NewDict(len(names))
		for i, name := range names {
			if name != "" {
				_ = gi.SetKey(starlark.String(name), starlark.MakeInt(i))
			}
		}
		gi.Freeze()
		return gi
	},
}

func (p *Pattern) Attr(name string) (starlark.Value, error) {
	if b, ok := patternMethods[name]; ok {
		return b.BindReceiver(p), nil
	}
	if f, ok := patternMembers[name]; ok {
		return f(p), nil
	}
	return nil, nil
}

func (p *Pattern) AttrNames() []string {
	names := make([]string, 0, len(patternMethods)+len(patternMembers))
	for name := range patternMethods {
		names = append(names, name)
	}
	for name := range patternMembers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p *Pattern) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Pattern)
	eq := p.re.String() == o.re.String() && p.flags == o.flags
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", p.Type(), op, o.Type())
	}
}

// matcher returns a Matcher over str[:endpos] whose region starts at pos.
// The bounds are transparent and non-anchoring, so ^ only matches at the
// real start of the string while lookbehind can see text before pos. It
// returns nil when pos > endpos after clamping.
func (p *Pattern) matcher(str string, pos, endpos int) *btregex.Matcher {
	endpos = clamp(endpos, len(str))
	pos = clamp(pos, len(str))
	if pos > endpos {
		return nil
	}
	return p.re.Matcher(str[:endpos]).
		Region(pos, endpos).
		UseAnchoringBounds(false).
		UseTransparentBounds(true)
}

func clamp(pos, n int) int {
	return min(max(pos, 0), n)
}

func (p *Pattern) search(ctx context.Context, str string, pos, endpos int) (starlark.Value, error) {
	m := p.matcher(str, pos, endpos)
	if m == nil {
		return starlark.None, nil
	}
	ok, err := m.FindContext(ctx)
	if err != nil || !ok {
		return starlark.None, err
	}
	return newMatch(p, str, m, pos, endpos), nil
}

func (p *Pattern) match(ctx context.Context, str string, pos, endpos int, full bool) (starlark.Value, error) {
	m := p.matcher(str, pos, endpos)
	if m == nil {
		return starlark.None, nil
	}
	var ok bool
	var err error
	if full {
		ok, err = m.MatchesContext(ctx)
	} else {
		ok, err = m.LookingAtContext(ctx)
	}
	if err != nil || !ok {
		return starlark.None, err
	}
	return newMatch(p, str, m, pos, endpos), nil
}

func (p *Pattern) findall(ctx context.Context, str string, pos, endpos int) (starlark.Value, error) {
	m := p.matcher(str, pos, endpos)
	if m == nil {
		return starlark.NewList(nil), nil
	}
	var out []starlark.Value
	n := p.re.NumSubexp()
	for {
		ok, err := m.FindContext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch n {
		case 0:
			out = append(out, starlark.String(m.Group(0)))
		case 1:
			out = append(out, starlark.String(m.Group(1)))
		default:
			t := make(starlark.Tuple, n)
			for i := range t {
				t[i] = starlark.String(m.Group(i + 1))
			}
			out = append(out, t)
		}
	}
	return starlark.NewList(out), nil
}

func (p *Pattern) split(ctx context.Context, str string, maxSplit int) (starlark.Value, error) {
	if maxSplit < 0 {
		return starlark.NewList([]starlark.Value{starlark.String(str)}), nil
	}
	m := p.re.Matcher(str)
	var out []starlark.Value
	last, n := 0, 0
	for maxSplit == 0 || n < maxSplit {
		ok, err := m.FindContext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, starlark.String(str[last:m.Start()]))
		for i := 1; i <= m.GroupCount(); i++ {
			if m.StartGroup(i) < 0 {
				out = append(out, starlark.None)
			} else {
				out = append(out, starlark.String(m.Group(i)))
			}
		}
		last = m.End()
		n++
	}
	out = append(out, starlark.String(str[last:]))
	return starlark.NewList(out), nil
}

func (p *Pattern) sub(thread *starlark.Thread, repl starlark.Value, str string, count int, withCount bool) (starlark.Value, error) {
	var expand func(*Match) (string, error)
	switch r := repl.(type) {
	case starlark.String:
		tmpl, err := parseTemplate(string(r), p.re)
		if err != nil {
			return nil, err
		}
		expand = func(mv *Match) (string, error) { return tmpl.expand(mv), nil }
	case starlark.Callable:
		expand = func(mv *Match) (string, error) {
			v, err := starlark.Call(thread, r, starlark.Tuple{mv}, nil)
			if err != nil {
				return "", err
			}
			s, ok := starlark.AsString(v)
			if !ok {
				return "", fmt.Errorf("sub: replacement function returned %s, want string", v.Type())
			}
			return s, nil
		}
	default:
		return nil, fmt.Errorf("sub: got %s for repl, want string or callable", repl.Type())
	}

	m := p.re.Matcher(str)
	ctx := threadContext(thread)
	var sb strings.Builder
	last, n := 0, 0
	for count <= 0 || n < count {
		ok, err := m.FindContext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		s, err := expand(newMatch(p, str, m, 0, len(str)))
		if err != nil {
			return nil, err
		}
		sb.WriteString(str[last:m.Start()])
		sb.WriteString(s)
		last = m.End()
		n++
	}
	sb.WriteString(str[last:])

	if withCount {
		return starlark.Tuple{starlark.String(sb.String()), starlark.MakeInt(n)}, nil
	}
	return starlark.String(sb.String()), nil
}

// unpackWindow unpacks the string, pos and endpos arguments shared by the
// Pattern methods.
func unpackWindow(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (str string, pos, endpos int, err error) {
	endpos = posMax
	err = starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos, "endpos?", &endpos)
	return
}

func patternSearch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := unpackWindow(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).search(threadContext(thread), str, pos, endpos)
}

func patternMatch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := unpackWindow(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).match(threadContext(thread), str, pos, endpos, false)
}

func patternFullmatch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := unpackWindow(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).match(threadContext(thread), str, pos, endpos, true)
}

func patternFindall(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := unpackWindow(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).findall(threadContext(thread), str, pos, endpos)
}

func patternSplit(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str      string
		maxSplit int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "maxsplit?", &maxSplit); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).split(threadContext(thread), str, maxSplit)
}

func patternSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		repl  starlark.Value
		str   string
		count int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "repl", &repl, "string", &str, "count?", &count); err != nil {
		return nil, err
	}
	return b.Receiver().(*Pattern).sub(thread, repl, str, count, b.Name() == "subn")
}
