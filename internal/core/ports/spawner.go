package ports

import (
	"context"
	"io"

	"go.nomake.dev/nomake/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=spawner.go -destination=mocks/mock_spawner.go -package=mocks

// ProcessSpawner starts rule commands as child processes, each in its own
// process group, per spec.md §6 "Process Spawner interface" and §5
// "own process group".
type ProcessSpawner interface {
	// Start spawns command with env, optionally redirecting stdin from
	// stdinRedir and/or stdout to stdoutRedir (either may be nil). place
	// is attached to any error raised while spawning.
	Start(ctx context.Context, command string, env []string, stdoutRedir io.Writer, stdinRedir io.Reader, place domain.Place) (Job, error)
	// StartCopy spawns a copy of src to dest, used by copy rules.
	StartCopy(ctx context.Context, dest, src string, place domain.Place) (Job, error)
}

// Job is a running (or finished) child process.
type Job interface {
	// Pid returns the child's process ID, which is also its process
	// group ID.
	Pid() int
	// Wait blocks until the child exits and returns its exit status.
	Wait() (ExitStatus, error)
	// TerminateGroup sends SIGTERM to the job's entire process group,
	// used by keep-going cleanup and signal-driven shutdown.
	TerminateGroup() error
}

// ExitStatus is a normalized process exit result.
type ExitStatus struct {
	// ExitCode is the process's exit code, or -1 if it was killed by a
	// signal.
	ExitCode int
	// Signal is the signal number that killed the process, or 0.
	Signal int
}

// Success reports whether the process exited with code 0 and was not
// killed by a signal.
func (s ExitStatus) Success() bool {
	return s.Signal == 0 && s.ExitCode == 0
}
