package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"

	"github.com/coregx/btregex"
	"github.com/coregx/btregex/syntax"
)

var interrupted = make(chan os.Signal, 1)

const sessionHelp = `Type a line of text to match it against the pattern.
  :pattern P   replace the pattern
  :flags F     recompile with modifier letters F (e.g. "im")
  :match T     test whether the whole of T matches
  :quit        leave the session
`

// session runs the interactive loop. Control-C while a match is running
// cancels it; Control-C at the prompt discards the line.
func session(re *btregex.Regex, config btregex.Config) error {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	rl, err := readline.New(prompt(re))
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprint(rl.Stdout(), sessionHelp)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(rl.Stdout(), err)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(rl.Stdout())
			return nil
		}
		if err != nil {
			return err
		}

		next, quit := command(rl.Stdout(), re, config, line)
		if quit {
			return nil
		}
		if next != re {
			re = next
			rl.SetPrompt(prompt(re))
		}
	}
}

func prompt(re *btregex.Regex) string {
	if f := re.Flags().String(); f != "" {
		return fmt.Sprintf("/%s/%s> ", re, f)
	}
	return fmt.Sprintf("/%s/> ", re)
}

// command handles one session line and returns the pattern to use from now
// on, and whether the session should end.
func command(w io.Writer, re *btregex.Regex, config btregex.Config, line string) (*btregex.Regex, bool) {
	name, arg, _ := strings.Cut(line, " ")
	switch name {
	case ":quit", ":q":
		return re, true
	case ":help":
		fmt.Fprint(w, sessionHelp)
	case ":pattern":
		next, err := btregex.CompileWithConfig(arg, re.Flags(), config)
		if err != nil {
			fmt.Fprintln(w, err)
			return re, false
		}
		return next, false
	case ":flags":
		flags, err := syntax.ParseFlags(arg)
		if err == nil {
			var next *btregex.Regex
			if next, err = btregex.CompileWithConfig(re.String(), flags, config); err == nil {
				return next, false
			}
		}
		fmt.Fprintln(w, err)
	case ":match":
		run(w, re.Matcher(arg), true)
	default:
		run(w, re.Matcher(line), false)
	}
	return re, false
}

// run matches m under a context cancelled by Control-C and prints the
// result.
func run(w io.Writer, m *btregex.Matcher, whole bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()

	if whole {
		ok, err := m.MatchesContext(ctx)
		if err != nil {
			fmt.Fprintln(w, err)
			return
		}
		if !ok {
			fmt.Fprintf(w, "no match (hitEnd=%v)\n", m.HitEnd())
			return
		}
		describe(w, m)
		return
	}
	n := 0
	for {
		ok, err := m.FindContext(ctx)
		if err != nil {
			fmt.Fprintln(w, err)
			return
		}
		if !ok {
			break
		}
		describe(w, m)
		n++
	}
	if n == 0 {
		fmt.Fprintf(w, "no match (hitEnd=%v)\n", m.HitEnd())
	}
}

// describe prints the span and text of the current match and of each of
// its groups, with "unset" for groups that did not participate.
func describe(w io.Writer, m *btregex.Matcher) {
	names := m.Regex().SubexpNames()
	for i := 0; i <= m.GroupCount(); i++ {
		label := "match"
		if i > 0 {
			label = fmt.Sprintf("  %d", i)
			if names[i] != "" {
				label += " <" + names[i] + ">"
			}
		}
		if m.StartGroup(i) < 0 {
			fmt.Fprintf(w, "%s unset\n", label)
			continue
		}
		fmt.Fprintf(w, "%s [%d,%d) %q\n", label, m.StartGroup(i), m.EndGroup(i), m.Group(i))
	}
}
