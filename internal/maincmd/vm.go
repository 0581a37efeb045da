package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/werbolg/internal/rtconfig"
	"github.com/mna/werbolg/lang/compile"
	"github.com/mna/werbolg/lang/desugar"
	"github.com/mna/werbolg/lang/lower"
	"github.com/mna/werbolg/lang/stdnif"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/vm"
)

// VM lowers each of args to linear code and runs it with the stack-based
// VM (spec.md §4.7), printing the value of the last top-level expression
// of each file -- the compiled-code analogue of Eval, run against the
// same source to exercise spec.md §8's VM/tree-walk equivalence law.
func (c *Cmd) VM(ctx context.Context, stdio mainer.Stdio, args []string) error {
	limits, err := c.limits()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "vm: %s\n", err)
		return err
	}

	var failed bool
	for _, file := range args {
		if err := vmFile(stdio, file, limits); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", file, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("vm: one or more files failed")
	}
	return nil
}

func vmFile(stdio mainer.Stdio, file string, limits rtconfig.Limits) error {
	nodes, err := parseNodes(file)
	if err != nil {
		return err
	}
	m, err := desugar.Module(nodes)
	if err != nil {
		return err
	}

	env := compile.NewEnvironment[value.NIF, value.Value]()
	stdnif.Library{Stdout: stdio.Stdout}.RegisterEnv(env)

	lm, nifs, exprGlobals, err := lower.Module(env, m)
	if err != nil {
		return err
	}

	em := vm.New(lm, nifs)
	em.AbortFunc = limits.AbortFunc(em.Depth)

	var last value.Value = value.Unit{}
	for _, name := range exprGlobals {
		last, err = vm.Exec(em, name, nil)
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(stdio.Stdout, last)
	return nil
}
