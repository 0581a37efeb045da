package rtconfig_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/werbolg/internal/rtconfig"
)

func TestLoadDefaults(t *testing.T) {
	l, err := rtconfig.Load()
	require.NoError(t, err)
	require.Equal(t, rtconfig.Limits{}, l)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WERBOLG_MAX_STEPS", "10")
	t.Setenv("WERBOLG_MAX_CALL_DEPTH", "3")
	t.Setenv("WERBOLG_DISABLE_RECURSION", "true")

	l, err := rtconfig.Load()
	require.NoError(t, err)
	require.Equal(t, rtconfig.Limits{MaxSteps: 10, MaxCallDepth: 3, DisableRecursion: true}, l)
}

func TestAbortFuncStepBudget(t *testing.T) {
	l := rtconfig.Limits{MaxSteps: 3}
	abort := l.AbortFunc(func() int { return 0 })
	require.False(t, abort())
	require.False(t, abort())
	require.False(t, abort())
	require.True(t, abort())
}

func TestAbortFuncDisableRecursionDefaultsDepthToOne(t *testing.T) {
	l := rtconfig.Limits{DisableRecursion: true}
	depth := 0
	abort := l.AbortFunc(func() int { return depth })

	require.False(t, abort())
	depth = 2
	require.True(t, abort())
}

func TestNoLimitsNeverAborts(t *testing.T) {
	os.Unsetenv("WERBOLG_MAX_STEPS")
	var l rtconfig.Limits
	abort := l.AbortFunc(func() int { return 1000 })
	for i := 0; i < 100; i++ {
		require.False(t, abort())
	}
}
