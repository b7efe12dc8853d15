// Package shell provides the process spawner adapter: each rule command
// runs as "sh -c <command>" in its own process group, so a SIGTERM sent to
// -pid reaches every descendant it spawned.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.ProcessSpawner using os/exec. Grounded on
// executor.go's original Execute: same env-merge priority (system, then
// caller-supplied env, by replacement rather than layering since the
// caller already did the merge), same log-streaming Stdout/Stderr
// wiring when no redirect is requested.
type Executor struct {
	logger ports.Logger

	// spawnMu serializes cmd.Start calls made by concurrent Start callers.
	// TerminateGroup does not take it: a job's process group is signalled
	// without any lock.
	spawnMu sync.Mutex
}

// NewExecutor creates an Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Start spawns command through "sh -c", in its own process group.
func (e *Executor) Start(ctx context.Context, command string, env []string, stdoutRedir io.Writer, stdinRedir io.Reader, place domain.Place) (ports.Job, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // rule commands are user-authored shell text
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if stdoutRedir != nil {
		cmd.Stdout = stdoutRedir
	} else {
		cmd.Stdout = &logWriter{logger: e.logger, level: "info"}
	}
	cmd.Stderr = &logWriter{logger: e.logger, level: "error"}
	if stdinRedir != nil {
		cmd.Stdin = stdinRedir
	}

	e.spawnMu.Lock()
	err := cmd.Start()
	e.spawnMu.Unlock()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "place", place.String())
	}

	return &job{cmd: cmd}, nil
}

// StartCopy performs a plain file copy; it has no subprocess, so the
// returned Job is already resolved by the time StartCopy returns — Wait
// simply reports the outcome captured at copy time.
func (e *Executor) StartCopy(ctx context.Context, dest, src string, place domain.Place) (ports.Job, error) {
	err := copyFile(dest, src)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to copy file"), "place", place.String())
	}
	return &copyJob{err: err}, nil
}

func copyFile(dest, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// job wraps a running sh -c subprocess.
type job struct {
	cmd *exec.Cmd
}

func (j *job) Pid() int { return j.cmd.Process.Pid }

func (j *job) Wait() (ports.ExitStatus, error) {
	err := j.cmd.Wait()
	if err == nil {
		return ports.ExitStatus{ExitCode: 0, Signal: 0}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return ports.ExitStatus{ExitCode: -1}, err
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return ports.ExitStatus{ExitCode: exitErr.ExitCode()}, nil
	}
	if status.Signaled() {
		return ports.ExitStatus{ExitCode: -1, Signal: int(status.Signal())}, nil
	}
	return ports.ExitStatus{ExitCode: status.ExitStatus()}, nil
}

func (j *job) TerminateGroup() error {
	if j.cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-j.cmd.Process.Pid, syscall.SIGTERM)
}

// copyJob is the resolved-at-creation Job a copy rule produces.
type copyJob struct {
	err error
}

func (c *copyJob) Pid() int { return 0 }

func (c *copyJob) Wait() (ports.ExitStatus, error) {
	if c.err != nil {
		return ports.ExitStatus{ExitCode: 1}, c.err
	}
	return ports.ExitStatus{}, nil
}

func (c *copyJob) TerminateGroup() error { return nil }

type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
