package environment_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.nomake.dev/nomake/internal/adapters/environment"
)

func TestFactory_Build_OverridesWinOverAmbientEnv(t *testing.T) {
	require.NoError(t, os.Setenv("NOMAKE_TEST_AMBIENT", "ambient"))
	defer os.Unsetenv("NOMAKE_TEST_AMBIENT")

	env := environment.New().Build(map[string]string{"NOMAKE_TEST_AMBIENT": "override"})

	assert.Contains(t, env, "NOMAKE_TEST_AMBIENT=override")
}

func TestFactory_Build_AddsNewKeys(t *testing.T) {
	env := environment.New().Build(map[string]string{"NOMAKE_TEST_NEW": "value"})
	assert.Contains(t, env, "NOMAKE_TEST_NEW=value")
}

func TestFactory_Build_PreservesAmbientEnv(t *testing.T) {
	require.NoError(t, os.Setenv("NOMAKE_TEST_KEEP", "kept"))
	defer os.Unsetenv("NOMAKE_TEST_KEEP")

	env := environment.New().Build(nil)
	assert.Contains(t, env, "NOMAKE_TEST_KEEP=kept")
}

func TestFactory_Build_IsSortedByKey(t *testing.T) {
	env := environment.New().Build(map[string]string{"ZZZ_TEST": "1", "AAA_TEST": "2"})

	var keys []string
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		keys = append(keys, key)
	}
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}
