package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func envVarsOf(t *testing.T, f cli.Flag) []string {
	t.Helper()
	getter, ok := f.(interface{ GetEnvVars() []string })
	require.True(t, ok, "flag %s does not expose env vars", f.Names()[0])
	return getter.GetEnvVars()
}

// The harness must run with no arguments at all, so no flag may be required.
func TestNoFlagIsRequired(t *testing.T) {
	for _, f := range Flags {
		req, ok := f.(cli.RequiredFlag)
		require.True(t, ok)
		require.False(t, req.IsRequired(), "flag %s must not be required", f.Names()[0])
	}
}

func TestFlagNamesAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, f := range Flags {
		name := f.Names()[0]
		_, dup := seen[name]
		require.False(t, dup, "flag name %s registered twice", name)
		seen[name] = struct{}{}
	}
}

// Each flag carries exactly one env var, derived from the flag name by
// uppercasing, swapping dashes for underscores, and prepending the prefix.
func TestEnvVarNaming(t *testing.T) {
	for _, f := range Flags {
		name := f.Names()[0]
		t.Run(name, func(t *testing.T) {
			vars := envVarsOf(t, f)
			require.Len(t, vars, 1)
			want := EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
			require.Equal(t, want, vars[0])
		})
	}
}
