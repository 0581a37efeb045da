package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/werbolg/internal/rtconfig"
	"github.com/mna/werbolg/lang/desugar"
	"github.com/mna/werbolg/lang/eval"
	"github.com/mna/werbolg/lang/stdnif"
)

// Eval runs each of args with the tree-walking evaluator (spec.md §4.6),
// printing the value of the last top-level expression of each file.
func (c *Cmd) Eval(ctx context.Context, stdio mainer.Stdio, args []string) error {
	limits, err := c.limits()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "eval: %s\n", err)
		return err
	}

	var failed bool
	for _, file := range args {
		if err := evalFile(stdio, file, limits); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("eval: one or more files failed")
	}
	return nil
}

func evalFile(stdio mainer.Stdio, file string, limits rtconfig.Limits) error {
	nodes, err := parseNodes(file)
	if err != nil {
		return err
	}
	m, err := desugar.Module(nodes)
	if err != nil {
		return err
	}

	em := eval.New()
	stdnif.Library{Stdout: stdio.Stdout}.RegisterEval(em)
	em.AbortFunc = limits.AbortFunc(em.Depth)

	v, err := eval.Exec(em, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdio.Stdout, v)
	return nil
}
