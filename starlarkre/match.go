package starlarkre

import (
	"errors"
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/coregx/btregex"
)

// Match is the result of a successful match as a Starlark value. It holds
// a snapshot of the group spans, so later matching does not change it.
type Match struct {
	pattern *Pattern
	str     string

	// spans holds start/end pairs per group, -1 when unset.
	spans []int

	pos, endpos int
	lastIndex   int
}

func newMatch(p *Pattern, str string, m *btregex.Matcher, pos, endpos int) *Match {
	n := m.GroupCount() + 1
	spans := make([]int, 0, 2*n)
	lastIndex, lastEnd := -1, -1
	for i := 0; i < n; i++ {
		s, e := m.StartGroup(i), m.EndGroup(i)
		spans = append(spans, s, e)
		if i > 0 && s >= 0 && e > lastEnd {
			lastIndex, lastEnd = i, e
		}
	}
	return &Match{
		pattern:   p,
		str:       str,
		spans:     spans,
		pos:       clamp(pos, len(str)),
		endpos:    clamp(endpos, len(str)),
		lastIndex: lastIndex,
	}
}

var (
	_ starlark.Value      = (*Match)(nil)
	_ starlark.HasAttrs   = (*Match)(nil)
	_ starlark.Mapping    = (*Match)(nil)
	_ starlark.Comparable = (*Match)(nil)
)

func (m *Match) String() string {
	return fmt.Sprintf("<re.Match object; span=(%d, %d), match=%s>",
		m.spans[0], m.spans[1], starlark.String(m.text(0)))
}

func (m *Match) Type() string         { return "match" }
func (m *Match) Freeze()              {}
func (m *Match) Truth() starlark.Bool { return true }

func (m *Match) Hash() (uint32, error) {
	h, _ := m.pattern.Hash()
	for _, v := range m.spans {
		h ^= uint32(v)
		h *= 16777619
	}
	return h, nil
}

func (m *Match) text(i int) string {
	return m.str[m.spans[2*i]:m.spans[2*i+1]]
}

func (m *Match) unset(i int) bool {
	return m.spans[2*i] < 0
}

var matchMethods = map[string]*starlark.Builtin{
	"expand":    starlark.NewBuiltin("expand", matchExpand),
	"group":     starlark.NewBuiltin("group", matchGroup),
	"groups":    starlark.NewBuiltin("groups", matchGroups),
	"groupdict": starlark.NewBuiltin("groupdict", matchGroupDict),
	"start":     starlark.NewBuiltin("start", matchStart),
	"end":       starlark.NewBuiltin("end", matchEnd),
	"span":      starlark.NewBuiltin("span", matchSpan),
}

var matchMembers = map[string]func(m *Match) starlark.Value{
	"pos":    func(m *Match) starlark.Value { return starlark.MakeInt(m.pos) },
	"endpos": func(m *Match) starlark.Value { return starlark.MakeInt(m.endpos) },
	"re":     func(m *Match) starlark.Value { return m.pattern },
	"string": func(m *Match) starlark.Value { return starlark.String(m.str) },
	"lastindex": func(m *Match) starlark.Value {
		if m.lastIndex < 0 {
			return starlark.None
		}
		return starlark.MakeInt(m.lastIndex)
	},
	"lastgroup": func(m *Match) starlark.Value {
		if m.lastIndex < 0 {
			return starlark.None
		}
		if name := m.pattern.re.SubexpNames()[m.lastIndex]; name != "" {
			return starlark.String(name)
		}
		return starlark.None
	},
}

func (m *Match) Attr(name string) (starlark.Value, error) {
	if b, ok := matchMethods[name]; ok {
		return b.BindReceiver(m), nil
	}
	if f, ok := matchMembers[name]; ok {
		return f(m), nil
	}
	return nil, nil
}

func (m *Match) AttrNames() []string {
	names := make([]string, 0, len(matchMethods)+len(matchMembers))
	for name := range matchMethods {
		names = append(names, name)
	}
	for name := range matchMembers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get implements m[g], which is m.group(g).
func (m *Match) Get(k starlark.Value) (starlark.Value, bool, error) {
	v, err := m.group(k)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (m *Match) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Match)
	eq := m.pattern == o.pattern && m.str == o.str && slices.Equal(m.spans, o.spans) &&
		m.pos == o.pos && m.endpos == o.endpos
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", m.Type(), op, o.Type())
	}
}

var errNoSuchGroup = errors.New("IndexError: no such group")

// index resolves a group number or name.
func (m *Match) index(v starlark.Value) (int, error) {
	switch t := v.(type) {
	case starlark.Int:
		if i, ok := t.Int64(); ok && i >= 0 && int(i) < len(m.spans)/2 {
			return int(i), nil
		}
	case starlark.String:
		if i := m.pattern.re.SubexpIndex(string(t)); i >= 0 {
			return i, nil
		}
	}
	return 0, errNoSuchGroup
}

func (m *Match) group(v starlark.Value) (starlark.Value, error) {
	i, err := m.index(v)
	if err != nil {
		return nil, err
	}
	if m.unset(i) {
		return starlark.None, nil
	}
	return starlark.String(m.text(i)), nil
}

func matchExpand(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var template string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "template", &template); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	tmpl, err := parseTemplate(template, m.pattern.re)
	if err != nil {
		return nil, err
	}
	return starlark.String(tmpl.expand(m)), nil
}

// matchGroup returns group 0 with no arguments, one group with one
// argument, and a tuple of groups otherwise.
func matchGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	m := b.Receiver().(*Match)
	switch len(args) {
	case 0:
		return m.group(starlark.MakeInt(0))
	case 1:
		return m.group(args[0])
	}
	out := make(starlark.Tuple, len(args))
	for i, a := range args {
		g, err := m.group(a)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

func matchGroups(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &def); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	n := len(m.spans)/2 - 1
	out := make(starlark.Tuple, n)
	for i := range out {
		if m.unset(i + 1) {
			out[i] = def
		} else {
			out[i] = starlark.String(m.text(i + 1))
		}
	}
	return out, nil
}

func matchGroupDict(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &def); err != nil {
		return nil, err
	}
	m := b.Receiver().(*Match)
	names := m.pattern.re.SubexpNames()
	d := starlark.NewDict(len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		var v starlark.Value = def
		if !m.unset(i) {
			v = starlark.String(m.text(i))
		}
		if err := d.SetKey(starlark.String(name), v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// unpackGroup unpacks the optional group argument of start, end and span.
func unpackGroup(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (*Match, int, error) {
	var g starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &g); err != nil {
		return nil, 0, err
	}
	m := b.Receiver().(*Match)
	i, err := m.index(g)
	return m, i, err
}

func matchStart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m, i, err := unpackGroup(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(m.spans[2*i]), nil
}

func matchEnd(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m, i, err := unpackGroup(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(m.spans[2*i+1]), nil
}

func matchSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	m, i, err := unpackGroup(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.Tuple{starlark.MakeInt(m.spans[2*i]), starlark.MakeInt(m.spans[2*i+1])}, nil
}
