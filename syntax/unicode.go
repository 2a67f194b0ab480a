package syntax

import (
	"strings"
	"unicode"
)

// Predefined class constructors. The ASCII forms are the default; the
// Unicode forms are selected by UnicodeCharacterClass.

func digitClass(uni bool) *Class {
	if uni {
		return &Class{Sets: []Set{{Name: "Nd", Table: unicode.Nd}}}
	}
	return &Class{Ranges: []Range{{'0', '9'}}}
}

func spaceClass(uni bool) *Class {
	if uni {
		return &Class{Sets: []Set{{Name: "White_Space", Table: unicode.White_Space}}}
	}
	return &Class{Ranges: []Range{{'\t', '\r'}, {' ', ' '}}}
}

func wordClass(uni bool) *Class {
	if uni {
		return &Class{Sets: []Set{{Name: "w", Fn: IsUnicodeWord}}}
	}
	return &Class{Ranges: []Range{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}}
}

func horizontalSpaceClass() *Class {
	return &Class{Ranges: []Range{
		{'\t', '\t'}, {' ', ' '}, {0xA0, 0xA0}, {0x1680, 0x1680}, {0x180E, 0x180E},
		{0x2000, 0x200A}, {0x202F, 0x202F}, {0x205F, 0x205F}, {0x3000, 0x3000},
	}}
}

func verticalSpaceClass() *Class {
	return &Class{Ranges: []Range{{'\n', '\r'}, {0x85, 0x85}, {0x2028, 0x2029}}}
}

func negated(c *Class) *Class {
	c.Negate = !c.Negate
	return c
}

// IsASCIIWord reports whether r is in [a-zA-Z0-9_].
func IsASCIIWord(r rune) bool {
	return r < 0x80 && (r == '_' || '0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
}

// IsUnicodeWord reports whether r is a Unicode word character: a letter,
// mark, decimal digit or connector punctuation.
func IsUnicodeWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.Is(unicode.Pc, r)
}

var posixClasses = map[string][]Range{
	"Lower":  {{'a', 'z'}},
	"Upper":  {{'A', 'Z'}},
	"ASCII":  {{0, 0x7F}},
	"Alpha":  {{'A', 'Z'}, {'a', 'z'}},
	"Digit":  {{'0', '9'}},
	"Alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
	"Punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
	"Graph":  {{'!', '~'}},
	"Print":  {{' ', '~'}},
	"Blank":  {{'\t', '\t'}, {' ', ' '}},
	"Cntrl":  {{0, 0x1F}, {0x7F, 0x7F}},
	"XDigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
	"Space":  {{'\t', '\r'}, {' ', ' '}},
}

var javaProperties = map[string]func(rune) bool{
	"javaLowerCase":     unicode.IsLower,
	"javaUpperCase":     unicode.IsUpper,
	"javaTitleCase":     unicode.IsTitle,
	"javaDigit":         unicode.IsDigit,
	"javaLetter":        unicode.IsLetter,
	"javaLetterOrDigit": func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) },
	"javaWhitespace":    isJavaWhitespace,
	"javaSpaceChar":     func(r rune) bool { return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp) },
	"javaISOControl":    func(r rune) bool { return r <= 0x1F || 0x7F <= r && r <= 0x9F },
	"javaMirrored":      inTable(bidiMirrored),
	"javaAlphabetic":    isAlphabetic,
	"javaIdeographic":   inTable(unicode.Ideographic),
	"javaDefined":       func(r rune) bool { return !unicode.Is(unicode.Cn, r) },
}

// binaryProperties are matched case-insensitively with '_', '-' and ' '
// removed, so "White_Space", "WhiteSpace" and "whitespace" are equal.
var binaryProperties = map[string]func(rune) bool{
	"alphabetic":            isAlphabetic,
	"letter":                unicode.IsLetter,
	"lowercase":             func(r rune) bool { return unicode.IsLower(r) || unicode.Is(unicode.Other_Lowercase, r) },
	"uppercase":             func(r rune) bool { return unicode.IsUpper(r) || unicode.Is(unicode.Other_Uppercase, r) },
	"titlecase":             unicode.IsTitle,
	"whitespace":            inTable(unicode.White_Space),
	"digit":                 unicode.IsDigit,
	"punctuation":           unicode.IsPunct,
	"control":               unicode.IsControl,
	"hexdigit":              inTable(unicode.Hex_Digit),
	"ideographic":           inTable(unicode.Ideographic),
	"joincontrol":           inTable(unicode.Join_Control),
	"noncharactercodepoint": inTable(unicode.Noncharacter_Code_Point),
	"assigned":              func(r rune) bool { return !unicode.Is(unicode.Cn, r) },
}

func inTable(t *unicode.RangeTable) func(rune) bool {
	return func(r rune) bool { return unicode.Is(t, r) }
}

func isAlphabetic(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_Alphabetic, r)
}

func isJavaWhitespace(r rune) bool {
	switch {
	case r == 0xA0 || r == 0x2007 || r == 0x202F:
		return false
	case '\t' <= r && r <= '\r', 0x1C <= r && r <= 0x1F:
		return true
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

func normalizeProperty(s string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
}

// lookupProperty resolves the name inside \p{...}.
func lookupProperty(name string) (Set, bool) {
	if name == "all" {
		return Set{Name: name, Fn: func(rune) bool { return true }}, true
	}
	if rs, ok := posixClasses[name]; ok {
		return Set{Name: name, Fn: (&Class{Ranges: rs}).Contains}, true
	}
	if fn, ok := javaProperties[name]; ok {
		return Set{Name: name, Fn: fn}, true
	}
	if key, val, ok := strings.Cut(name, "="); ok {
		switch strings.ToLower(key) {
		case "sc", "script":
			if t, ok := unicode.Scripts[val]; ok {
				return Set{Name: name, Table: t}, true
			}
		case "gc", "generalcategory", "general_category":
			if t, ok := unicode.Categories[val]; ok {
				return Set{Name: name, Table: t}, true
			}
		}
		return Set{}, false
	}
	if t, ok := unicode.Categories[name]; ok {
		return Set{Name: name, Table: t}, true
	}
	if rest, ok := strings.CutPrefix(name, "Is"); ok {
		if t, ok := unicode.Categories[rest]; ok {
			return Set{Name: name, Table: t}, true
		}
		if t, ok := unicode.Scripts[rest]; ok {
			return Set{Name: name, Table: t}, true
		}
		if fn, ok := binaryProperties[normalizeProperty(rest)]; ok {
			return Set{Name: name, Fn: fn}, true
		}
		for script, t := range unicode.Scripts {
			if strings.EqualFold(script, rest) {
				return Set{Name: name, Table: t}, true
			}
		}
	}
	return Set{}, false
}
