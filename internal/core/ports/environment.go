// Package ports defines the core interfaces for the application.
package ports

// EnvironmentFactory merges a rule's declared environment mapping into the
// process environment a command runs with.
//
// This is the trimmed survivor of a hermetic-toolchain resolver: no
// network fetch, no package installation — just "start from the current
// process environment, then apply the rule's own KEY=VALUE overrides",
// per spec.md's non-goal on network fetch.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentFactory interface {
	// Build returns the environment a command should run with: the
	// current process environment overlaid with overrides, as
	// "KEY=VALUE" strings suitable for exec.
	Build(overrides map[string]string) []string
}
