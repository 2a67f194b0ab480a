// The btregex command searches text with a backtracking regular expression.
//
// Usage:
//
//	btregex [flags] pattern [file...]
//
// With files (or piped standard input) it prints the matching lines, like
// grep. When standard input is a terminal and no files are named, it starts
// an interactive session in which each line typed is matched against the
// pattern and the groups of every match are printed. Control-C cancels a
// match that is taking too long.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/term"

	"github.com/coregx/btregex"
	"github.com/coregx/btregex/syntax"
)

// flags
var (
	ignoreCase   = flag.Bool("i", false, "case-insensitive matching")
	modifiers    = flag.String("flags", "", "inline modifier letters, e.g. `imsx`")
	onlyMatching = flag.Bool("o", false, "print only the matched parts of each line")
	lineNumbers  = flag.Bool("n", false, "prefix each line with its line number")
	countOnly    = flag.Bool("c", false, "print only a count of matching lines")
	invert       = flag.Bool("v", false, "select non-matching lines")
	timeout      = flag.Duration("timeout", 0, "abandon the search after `duration` (0 means no limit)")
	maxDepth     = flag.Int("depth", btregex.DefaultConfig().MaxDepth, "backtracking depth limit")
	noPrefilter  = flag.Bool("noprefilter", false, "disable literal prefiltering")
	showStats    = flag.Bool("stats", false, "print matching statistics on exit")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("btregex: ")
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: btregex [flags] pattern [file...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return 2
	}

	flags, err := syntax.ParseFlags(*modifiers)
	if err != nil {
		log.Print(err)
		return 2
	}
	if *ignoreCase {
		flags |= btregex.CaseInsensitive
	}
	config := btregex.DefaultConfig()
	config.MaxDepth = *maxDepth
	config.EnablePrefilter = !*noPrefilter

	re, err := btregex.CompileWithConfig(flag.Arg(0), flags, config)
	if err != nil {
		log.Print(err)
		return 2
	}
	if *showStats {
		defer func() {
			st := re.Stats()
			log.Printf("searches=%d candidates=%d hits=%d abandoned=%d aborts=%d",
				st.Searches, st.PrefilterCandidates, st.PrefilterHits, st.PrefilterAbandoned, st.Aborts)
		}()
	}

	files := flag.Args()[1:]
	if len(files) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := session(re, config); err != nil {
			log.Print(err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	return runGrep(ctx, re, files)
}

// runGrep searches files (standard input when there are none) and returns
// the exit status: 0 if a line was selected, 1 if none was, 2 on error.
func runGrep(ctx context.Context, re *btregex.Regex, files []string) int {
	opts := grepOptions{
		onlyMatching: *onlyMatching,
		lineNumbers:  *lineNumbers,
		count:        *countOnly,
		invert:       *invert,
		withFilename: len(files) > 1,
	}
	start := time.Now()
	status := 1
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		n, err := grepFile(ctx, re, name, opts)
		if err != nil {
			log.Printf("%s: %v", name, err)
			status = 2
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if n > 0 && status == 1 {
			status = 0
		}
	}
	if *showStats {
		log.Printf("elapsed %v", time.Since(start))
	}
	return status
}

func grepFile(ctx context.Context, re *btregex.Regex, name string, opts grepOptions) (int, error) {
	if name == "-" {
		return grep(ctx, re, os.Stdin, "(standard input)", os.Stdout, opts)
	}
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return grep(ctx, re, f, name, os.Stdout, opts)
}
