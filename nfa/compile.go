package nfa

import (
	"unicode"

	"github.com/coregx/btregex/input"
	"github.com/coregx/btregex/syntax"
)

// Compile parses pattern and builds its node graph. Syntax errors are
// returned unwrapped as *syntax.Error.
func Compile(pattern string, flags syntax.Flags) (*Program, error) {
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	return CompileRegexp(re, pattern, flags)
}

// CompileRegexp builds the node graph for an already parsed pattern.
func CompileRegexp(re *syntax.Regexp, pattern string, flags syntax.Flags) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			prog, err = nil, &CompileError{Pattern: pattern, Err: a.err}
		}
	}()

	c := &compiler{b: newBuilder()}
	final := c.b.add(&finalNode{base: base{next: InvalidNode}})
	start := c.group(re, 0, -1, final)
	if err := c.b.validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	ncap := re.MaxCap()
	prog = &Program{
		nodes:     c.b.nodes,
		start:     start,
		groups:    ncap + 1,
		consumers: c.consumers,
		counters:  c.counters,
		names:     re.CapNames(),
		refs:      backrefGroups(re, ncap),
		anchored:  isAnchored(re),
		flags:     flags,
		pattern:   pattern,
	}
	prog.substituteBackRefSingles()
	return prog, nil
}

// compiler translates a syntax tree into nodes, back to front: each
// compile call receives the node that follows the construct and returns
// the construct's entry node.
type compiler struct {
	b         *builder
	consumers int
	counters  int
}

func (c *compiler) newConsumer() int {
	c.consumers++
	return c.consumers - 1
}

func (c *compiler) newCounter() int {
	c.counters++
	return c.counters - 1
}

func (c *compiler) compile(re *syntax.Regexp, next NodeID) NodeID {
	switch re.Op {
	case syntax.OpEmpty:
		return c.b.add(&emptyNode{base: base{next: next}})

	case syntax.OpLiteral:
		if len(re.Runes) == 1 {
			return c.addLeaf(c.leaf(re), next)
		}
		if re.FoldCase() && anyFolds(re.Runes, re.UnicodeFold()) {
			return c.b.add(&foldSeqNode{base: base{next: next}, runes: re.Runes, unicode: re.UnicodeFold()})
		}
		if !input.Searchable(re.Runes) {
			for i := len(re.Runes) - 1; i >= 0; i-- {
				next = c.addLeaf(newCharNode(re.Runes[i]), next)
			}
			return next
		}
		return c.b.add(&seqNode{base: base{next: next}, lit: input.NewLiteral(re.Runes)})

	case syntax.OpClass, syntax.OpAnyChar:
		return c.addLeaf(c.leaf(re), next)

	case syntax.OpAssert:
		if re.Assert == syntax.AssertWordBoundary || re.Assert == syntax.AssertNoWordBoundary {
			return c.b.add(&wordBoundaryNode{
				base:    base{next: next},
				negate:  re.Assert == syntax.AssertNoWordBoundary,
				unicode: re.Flags&syntax.UnicodeCharacterClass != 0,
			})
		}
		return c.b.add(&anchorNode{
			base:      base{next: next},
			kind:      re.Assert,
			multiline: re.Flags&syntax.Multiline != 0,
			unixLines: re.Flags&syntax.UnixLines != 0,
		})

	case syntax.OpConcat:
		for i := len(re.Sub) - 1; i >= 0; i-- {
			next = c.compile(re.Sub[i], next)
		}
		if len(re.Sub) == 0 {
			return c.b.add(&emptyNode{base: base{next: next}})
		}
		return next

	case syntax.OpAlternate:
		return c.group(re, -1, -1, next)

	case syntax.OpCapture:
		return c.capture(re, -1, next)

	case syntax.OpAtomic:
		ret := c.b.add(&returnNode{base: base{next: InvalidNode}})
		body := c.compile(re.Sub[0], ret)
		return c.b.add(&atomicNode{base: base{next: next}, body: body, groups: captures(re.Sub[0])})

	case syntax.OpLook:
		if re.Behind {
			return c.lookbehind(re, next)
		}
		ret := c.b.add(&returnNode{base: base{next: InvalidNode}})
		body := c.compile(re.Sub[0], ret)
		return c.b.add(&lookaheadNode{
			base:   base{next: next},
			body:   body,
			negate: re.Negate,
			groups: captures(re.Sub[0]),
		})

	case syntax.OpRepeat:
		return c.repeat(re, next)

	case syntax.OpBackref:
		return c.b.add(&backrefNode{
			base:       base{next: next},
			group:      re.Cap,
			fold:       re.FoldCase(),
			unicode:    re.UnicodeFold(),
			emptyUnset: re.Flags&syntax.EmptyUnsetBackrefs != 0,
		})
	}
	panic(abort{&BuildError{Message: "unknown operator", NodeID: InvalidNode}})
}

// group builds a group around body: a jointNode when body is an
// alternation, a singleNode otherwise. next is the group's closing node.
func (c *compiler) group(body *syntax.Regexp, group, consumer int, next NodeID) NodeID {
	if body.Op == syntax.OpAlternate {
		children := make([]NodeID, len(body.Sub))
		for i, sub := range body.Sub {
			children[i] = c.compile(sub, next)
		}
		return c.b.add(&jointNode{base: base{next: next}, children: children, group: group, consumer: consumer})
	}
	kid := c.compile(body, next)
	return c.b.add(&singleNode{base: base{next: next}, kid: kid, group: group, consumer: consumer})
}

// capture builds a capturing group closed by a groupEndNode.
func (c *compiler) capture(re *syntax.Regexp, consumer int, next NodeID) NodeID {
	end := c.b.add(&groupEndNode{base: base{next: next}, group: re.Cap, consumer: consumer})
	return c.group(re.Sub[0], re.Cap, consumer, end)
}

func (c *compiler) lookbehind(re *syntax.Regexp, next NodeID) NodeID {
	consumer := c.newConsumer()
	end := c.b.add(&behindEndNode{base: base{next: InvalidNode}, consumer: consumer})
	body := c.compile(re.Sub[0], end)
	lo, hi := widthBounds(re.Sub[0])
	return c.b.add(&lookbehindNode{
		base:     base{next: next},
		body:     body,
		negate:   re.Negate,
		consumer: consumer,
		minLen:   lo,
		maxLen:   hi,
		groups:   captures(re.Sub[0]),
	})
}

func (c *compiler) repeat(re *syntax.Regexp, next NodeID) NodeID {
	sub := re.Sub[0]
	switch {
	case re.Max == 0:
		return c.b.add(&emptyNode{base: base{next: next}})
	case re.Min == 1 && re.Max == 1 && re.Policy != syntax.Possessive:
		return c.compile(sub, next)
	}

	if l := c.leaf(sub); l != nil {
		item := c.addLeaf(l, InvalidNode)
		r := leafRepeatNode{
			base:   base{next: next},
			item:   item,
			inner:  l,
			min:    re.Min,
			max:    re.Max,
			policy: re.Policy,
		}
		if sub.Op == syntax.OpAnyChar && re.Min == 0 && re.Max == syntax.Inf && re.Policy == syntax.Greedy {
			return c.b.add(&dotStarNode{
				leafRepeatNode: r,
				dotAll:         sub.Flags&syntax.DotAll != 0,
				unixLines:      sub.Flags&syntax.UnixLines != 0,
			})
		}
		return c.b.add(&r)
	}
	return c.loop(re, next)
}

// loop builds a composite repeat:
//
//	entry -> loop -> body -> groupEnd -> loop ... -> next
//
// The loop slot is reserved first since the body jumps back to it. A
// possessive repeat wraps a greedy loop in an atomic group.
func (c *compiler) loop(re *syntax.Regexp, next NodeID) NodeID {
	sub := re.Sub[0]
	counter := c.newCounter()
	consumer := c.newConsumer()
	loopID := c.b.reserve()

	var body NodeID
	if sub.Op == syntax.OpCapture {
		body = c.capture(sub, consumer, loopID)
	} else {
		end := c.b.add(&groupEndNode{base: base{next: loopID}, group: -1, consumer: consumer})
		body = c.group(sub, -1, consumer, end)
	}

	exit := next
	if re.Policy == syntax.Possessive {
		exit = c.b.add(&returnNode{base: base{next: InvalidNode}})
	}
	c.b.set(loopID, &loopNode{
		base:    base{next: exit},
		body:    body,
		min:     re.Min,
		max:     re.Max,
		greedy:  re.Policy != syntax.Reluctant,
		counter: counter,
	})
	entry := c.b.add(&loopEntryNode{
		base:         base{next: exit},
		loop:         loopID,
		counter:      counter,
		bodyConsumer: consumer,
	})
	if re.Policy != syntax.Possessive {
		return entry
	}
	return c.b.add(&atomicNode{base: base{next: next}, body: entry, groups: captures(sub)})
}

// leaf returns the single-code-point node for re, or nil when re can
// match something other than exactly one code point.
func (c *compiler) leaf(re *syntax.Regexp) leaf {
	fold, uni := re.FoldCase(), re.UnicodeFold()
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Runes) != 1 {
			return nil
		}
		r := re.Runes[0]
		if fold && hasFold(r, uni) {
			return &foldCharNode{r: r, unicode: uni}
		}
		return newCharNode(r)
	case syntax.OpClass:
		if r, ok := re.Class.Single(); ok && !(fold && hasFold(r, uni)) {
			return newCharNode(r)
		}
		return &classNode{cls: re.Class, fold: fold, unicode: uni}
	case syntax.OpAnyChar:
		return &anyNode{
			dotAll:    re.Flags&syntax.DotAll != 0,
			unixLines: re.Flags&syntax.UnixLines != 0,
		}
	}
	return nil
}

func (c *compiler) addLeaf(l leaf, next NodeID) NodeID {
	l.setNext(next)
	return c.b.add(l)
}

// hasFold reports whether r has case variants under the given folding.
func hasFold(r rune, unicodeCase bool) bool {
	if !unicodeCase {
		return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
	}
	return unicode.SimpleFold(r) != r
}

func anyFolds(runes []rune, unicodeCase bool) bool {
	for _, r := range runes {
		if hasFold(r, unicodeCase) {
			return true
		}
	}
	return false
}
