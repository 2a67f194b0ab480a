package starlarkre

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/btregex"
)

// template is a parsed replacement string: literal text interleaved with
// group references.
type template struct {
	parts []templatePart
}

// templatePart is a literal when group is -1, a group reference otherwise.
type templatePart struct {
	literal string
	group   int
}

var templateEscapes = map[byte]byte{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n',
	'r': '\r', 't': '\t', 'v': '\v', '\\': '\\',
}

// parseTemplate parses Python replacement syntax: \1 to \99 and \g<n> or
// \g<name> refer to groups, the usual character escapes are decoded, and a
// backslash before any other non-letter is kept as is.
func parseTemplate(s string, re *btregex.Regex) (*template, error) {
	t := &template{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	ref := func(i int) error {
		if i < 0 || i > re.NumSubexp() {
			return fmt.Errorf("invalid group reference %d", i)
		}
		flush()
		t.parts = append(t.parts, templatePart{group: i})
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			lit.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return nil, fmt.Errorf("bad escape (end of pattern) at position %d", i)
		}
		i++
		c = s[i]
		switch {
		case c >= '1' && c <= '9':
			n := int(c - '0')
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				i++
				n = n*10 + int(s[i]-'0')
			}
			if err := ref(n); err != nil {
				return nil, err
			}
		case c == 'g':
			if i+1 >= len(s) || s[i+1] != '<' {
				return nil, fmt.Errorf("missing < at position %d", i+1)
			}
			end := strings.IndexByte(s[i+2:], '>')
			if end < 0 {
				return nil, fmt.Errorf("missing >, unterminated name at position %d", i+2)
			}
			name := s[i+2 : i+2+end]
			idx, err := strconv.Atoi(name)
			if err != nil {
				if idx = re.SubexpIndex(name); idx < 0 {
					return nil, fmt.Errorf("unknown group name %q", name)
				}
			}
			if err := ref(idx); err != nil {
				return nil, err
			}
			i += 2 + end
		case c == '0':
			lit.WriteByte(0)
		default:
			if e, ok := templateEscapes[c]; ok {
				lit.WriteByte(e)
			} else if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
				return nil, fmt.Errorf("bad escape \\%c at position %d", c, i-1)
			} else {
				lit.WriteByte('\\')
				lit.WriteByte(c)
			}
		}
	}
	flush()
	return t, nil
}

// expand renders the template for m. Unset groups expand to "".
func (t *template) expand(m *Match) string {
	var sb strings.Builder
	for _, p := range t.parts {
		switch {
		case p.group < 0:
			sb.WriteString(p.literal)
		case !m.unset(p.group):
			sb.WriteString(m.text(p.group))
		}
	}
	return sb.String()
}
