// Package maincmd implements werbolg's all-in-one CLI: a single Cmd
// struct carries both the global flags and (via buildCmds) the
// per-command entry points, discovered by reflection instead of a
// second dispatch table to keep the two in sync by construction.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/werbolg/internal/rtconfig"
)

const binName = "werbolg"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Embeddable interpreter and all-in-one tool for the werbolg expression
language.

The <command> can be one of:
       tokenize                  Scan the given source files and print
                                  their tokens.
       parse                     Scan and parse the given source files and
                                  print the resulting concrete-syntax
                                  nodes.
       eval                      Run the given source files with the
                                  tree-walking evaluator and print the
                                  value of the last top-level expression.
       vm                        Lower the given source files to linear
                                  code and run them with the stack-based
                                  VM, printing the value of the last
                                  top-level expression.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --max-steps N             Abort after N evaluator/VM steps (also
                                  read from WERBOLG_MAX_STEPS).
       --max-call-depth N        Abort once nested calls exceed depth N
                                  (also read from WERBOLG_MAX_CALL_DEPTH).
       --disable-recursion       Abort on any nested call (also read from
                                  WERBOLG_DISABLE_RECURSION).

More information on the werbolg repository:
       https://github.com/mna/werbolg
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	MaxSteps         int  `flag:"max-steps"`
	MaxCallDepth     int  `flag:"max-call-depth"`
	DisableRecursion bool `flag:"disable-recursion"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}

	return nil
}

// limits merges the environment-sourced rtconfig.Limits with any flags
// explicitly passed on the command line, which take precedence.
func (c *Cmd) limits() (rtconfig.Limits, error) {
	l, err := rtconfig.Load()
	if err != nil {
		return rtconfig.Limits{}, fmt.Errorf("reading execution limits: %w", err)
	}
	if c.flags["max-steps"] {
		l.MaxSteps = c.MaxSteps
	}
	if c.flags["max-call-depth"] {
		l.MaxCallDepth = c.MaxCallDepth
	}
	if c.flags["disable-recursion"] {
		l.DisableRecursion = c.DisableRecursion
	}
	return l, nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // execution limits are sourced via internal/rtconfig instead
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
