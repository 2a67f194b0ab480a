package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/coregx/btregex"
)

type grepOptions struct {
	onlyMatching bool
	lineNumbers  bool
	count        bool
	invert       bool
	withFilename bool
}

// maxLine is the longest line grep accepts.
const maxLine = 16 << 20

// grep writes the lines of r selected by re to w and returns how many were
// selected. It stops at the first aborted match, returning the abort
// error.
func grep(ctx context.Context, re *btregex.Regex, r io.Reader, name string, w io.Writer, opts grepOptions) (int, error) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)

	m := re.Matcher("")
	selected := 0
	for lineno := 1; sc.Scan(); lineno++ {
		line := sc.Text()
		m.ResetString(line)

		found, err := m.FindContext(ctx)
		if err != nil {
			return selected, fmt.Errorf("line %d: %w", lineno, err)
		}
		if found == opts.invert {
			continue
		}
		selected++
		if opts.count {
			continue
		}

		prefix := ""
		if opts.withFilename {
			prefix = name + ":"
		}
		if opts.lineNumbers {
			prefix += fmt.Sprintf("%d:", lineno)
		}
		if !opts.onlyMatching || opts.invert {
			fmt.Fprintf(bw, "%s%s\n", prefix, line)
			continue
		}
		for found {
			if m.End() > m.Start() {
				fmt.Fprintf(bw, "%s%s\n", prefix, m.Group(0))
			}
			if found, err = m.FindContext(ctx); err != nil {
				return selected, fmt.Errorf("line %d: %w", lineno, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return selected, err
	}
	if opts.count {
		if opts.withFilename {
			fmt.Fprintf(bw, "%s:", name)
		}
		fmt.Fprintf(bw, "%d\n", selected)
	}
	return selected, nil
}
