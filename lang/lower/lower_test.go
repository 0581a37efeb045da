package lower_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/lang/compile"
	"github.com/mna/werbolg/lang/desugar"
	"github.com/mna/werbolg/lang/ident"
	"github.com/mna/werbolg/lang/lispy"
	"github.com/mna/werbolg/lang/lower"
	"github.com/mna/werbolg/lang/stdnif"
	"github.com/mna/werbolg/lang/value"
	"github.com/mna/werbolg/lang/vm"
	"github.com/mna/werbolg/lang/werr"
)

// runVM parses, desugars and lowers src (which must define a zero-argument
// top-level function named "run"), then runs it to completion on the VM --
// the same end-to-end scenarios lang/stdnif's tests run against the
// tree-walker, verifying spec.md §8's "VM/tree-walk equivalence" law.
func runVM(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	var s lispy.Scanner
	s.Init([]byte(src), func(err error) { t.Fatalf("scan error: %v", err) })
	p := lispy.NewParser(&s)
	nodes := p.ParseAll()
	require.Empty(t, p.Errs())

	m, err := desugar.Module(nodes)
	require.NoError(t, err)

	env := compile.NewEnvironment[value.NIF, value.Value]()
	stdnif.Library{}.RegisterEnv(env)

	lm, nifs, _, err := lower.Module(env, m)
	require.NoError(t, err)

	em := vm.New(lm, nifs)
	return vm.Exec(em, ident.FromString("run"), nil)
}

func TestVMScenarios(t *testing.T) {
	t.Run("add3", func(t *testing.T) {
		v, err := runVM(t, `
		(define (add3 a b c) (+ (+ a b) c))
		(define (run) (add3 10 20 30))
		`)
		require.NoError(t, err)
		n, ok := v.(value.Number)
		require.True(t, ok)
		require.Equal(t, big.NewInt(60), n.V)
	})

	t.Run("if true", func(t *testing.T) {
		v, err := runVM(t, `(define (run) (if #t 1 2))`)
		require.NoError(t, err)
		require.Equal(t, value.NewNumber(1), v)
	})

	t.Run("if false", func(t *testing.T) {
		v, err := runVM(t, `(define (run) (if #f 1 2))`)
		require.NoError(t, err)
		require.Equal(t, value.NewNumber(2), v)
	})

	t.Run("let shadowing", func(t *testing.T) {
		v, err := runVM(t, `(define (run) (let ((x 5)) (let ((x 7)) x)))`)
		require.NoError(t, err)
		require.Equal(t, value.NewNumber(7), v)
	})

	t.Run("lambda call", func(t *testing.T) {
		v, err := runVM(t, `(define (run) ((lambda (x) x) 42))`)
		require.NoError(t, err)
		require.Equal(t, value.NewNumber(42), v)
	})

	t.Run("lambda arity error", func(t *testing.T) {
		_, err := runVM(t, `(define (run) ((lambda (x) x) 1 2))`)
		require.Error(t, err)
	})

	t.Run("calling a non-function", func(t *testing.T) {
		_, err := runVM(t, `(define (run) (1 2 3))`)
		require.Error(t, err)
		var cnf *werr.CallingNotFunc
		require.ErrorAs(t, err, &cnf)
		require.Equal(t, value.KindNumber, cnf.ValueIs)
	})

	t.Run("list literal", func(t *testing.T) {
		v, err := runVM(t, `(define (run) (car (cdr (list 1 2 3))))`)
		require.NoError(t, err)
		require.Equal(t, value.NewNumber(2), v)
	})

	t.Run("exprGlobals names top-level expressions in declaration order", func(t *testing.T) {
		var s lispy.Scanner
		s.Init([]byte(`(+ 1 1) (+ 2 2) (+ 3 3)`), func(error) {})
		p := lispy.NewParser(&s)
		nodes := p.ParseAll()
		m, err := desugar.Module(nodes)
		require.NoError(t, err)

		env := compile.NewEnvironment[value.NIF, value.Value]()
		stdnif.Library{}.RegisterEnv(env)
		lm, nifs, exprGlobals, err := lower.Module(env, m)
		require.NoError(t, err)
		names := make([]string, len(exprGlobals))
		for i, n := range exprGlobals {
			names[i] = n.String()
		}
		require.Equal(t, []string{"$expr0", "$expr1", "$expr2"}, names)

		em := vm.New(lm, nifs)
		var last value.Value
		for _, name := range exprGlobals {
			last, err = vm.Exec(em, name, nil)
			require.NoError(t, err)
		}
		require.Equal(t, value.NewNumber(6), last)
	})

	t.Run("unresolved identifier is a lowering error, not a runtime one", func(t *testing.T) {
		var s lispy.Scanner
		s.Init([]byte(`(define (run) (foo))`), func(error) {})
		p := lispy.NewParser(&s)
		nodes := p.ParseAll()
		m, err := desugar.Module(nodes)
		require.NoError(t, err)

		env := compile.NewEnvironment[value.NIF, value.Value]()
		stdnif.Library{}.RegisterEnv(env)
		_, _, _, err = lower.Module(env, m)
		require.Error(t, err)
		var lerr *lower.Error
		require.ErrorAs(t, err, &lerr)
	})
}
