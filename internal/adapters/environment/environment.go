// Package environment provides the process-environment adapter for
// ports.EnvironmentFactory: the trimmed survivor of the teacher's nix
// package's hermetic toolchain resolver, keeping only the "start from the
// ambient environment, then apply per-rule overrides" piece.
package environment

import (
	"os"
	"sort"
	"strings"
)

// Factory implements ports.EnvironmentFactory on top of the current
// process environment.
type Factory struct{}

// New returns a Factory.
func New() *Factory { return &Factory{} }

// Build returns os.Environ() overlaid with overrides, sorted by key for
// deterministic ordering — commands see the same environment slice
// regardless of the overrides map's iteration order.
func (*Factory) Build(overrides map[string]string) []string {
	merged := make(map[string]string, len(overrides))
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, key := range keys {
		env = append(env, key+"="+merged[key])
	}
	return env
}
