// Package rtconfig loads the host-side execution limits that bound an
// otherwise cooperative-only werbolg run (the AbortFunc hook on both
// execution machines), sourced directly from the environment through
// github.com/caarlos0/env/v6, since these limits are runtime policy
// rather than CLI flags and apply equally to an embedding host that
// never goes through the CLI at all.
package rtconfig

import "github.com/caarlos0/env/v6"

// Limits bounds a single werbolg execution: a step budget, a call-depth
// budget, and a blanket switch to disable recursion entirely. Zero means
// "no limit" for the two budgets.
type Limits struct {
	MaxSteps         int  `env:"WERBOLG_MAX_STEPS" envDefault:"0"`
	MaxCallDepth     int  `env:"WERBOLG_MAX_CALL_DEPTH" envDefault:"0"`
	DisableRecursion bool `env:"WERBOLG_DISABLE_RECURSION" envDefault:"false"`
}

// Load reads Limits from the process environment.
func Load() (Limits, error) {
	var l Limits
	if err := env.Parse(&l); err != nil {
		return Limits{}, err
	}
	return l, nil
}

// AbortFunc builds the predicate lang/eval.ExecutionMachine.AbortFunc and
// lang/vm.ExecutionMachine.AbortFunc expect: it counts steps itself and
// polls depth (em.Depth()) for the call-depth budget. DisableRecursion is
// enforced as a call-depth budget of 1 when no explicit MaxCallDepth was
// configured -- werbolg tracks nesting depth, not which function is being
// re-entered, so "no recursion" is approximated here as "no nested calls
// at all", the strictest bound that still rules out any recursive call.
func (l Limits) AbortFunc(depth func() int) func() bool {
	maxDepth := l.MaxCallDepth
	if l.DisableRecursion && maxDepth == 0 {
		maxDepth = 1
	}
	var steps int
	return func() bool {
		steps++
		if l.MaxSteps > 0 && steps > l.MaxSteps {
			return true
		}
		if maxDepth > 0 && depth() > maxDepth {
			return true
		}
		return false
	}
}
