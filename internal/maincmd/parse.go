package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/werbolg/lang/lispy"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(stdio, args...)
}

// ParseFiles scans and parses each of files in turn, printing the
// resulting top-level concrete-syntax nodes one per line.
func ParseFiles(stdio mainer.Stdio, files ...string) error {
	var failed bool
	for _, file := range files {
		if err := parseFile(stdio, file); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("parse: one or more files failed")
	}
	return nil
}

func parseFile(stdio mainer.Stdio, file string) error {
	nodes, err := parseNodes(file)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if err := lispy.Fprint(stdio.Stdout, n); err != nil {
			return err
		}
		fmt.Fprintln(stdio.Stdout)
	}
	return nil
}

// parseNodes scans and parses a single file's source, returning either
// its top-level nodes or the first lexical/structural error encountered.
func parseNodes(file string) ([]lispy.Node, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var scanErrs []error
	var s lispy.Scanner
	s.Init(src, func(err error) { scanErrs = append(scanErrs, err) })

	p := lispy.NewParser(&s)
	nodes := p.ParseAll()

	if len(scanErrs) > 0 {
		return nil, scanErrs[0]
	}
	if errs := p.Errs(); len(errs) > 0 {
		return nil, errs[0]
	}
	return nodes, nil
}
