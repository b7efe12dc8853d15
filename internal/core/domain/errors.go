package domain

import "go.trai.ch/zerr"

// ErrorKind is a bit in the accumulated error taxonomy spec.md §7 defines:
// Build and Logical can be OR-combined under keep-going, Fatal never is.
type ErrorKind uint8

const (
	// ErrorNone means no error has been raised.
	ErrorNone ErrorKind = 0
	// ErrorBuild: a command failed, a required file is missing, or (in
	// question mode) a target turned out not to be up to date.
	ErrorBuild ErrorKind = 1 << 0
	// ErrorLogical: a cycle, an ambiguous rule match, a parse error, or an
	// unused parameter.
	ErrorLogical ErrorKind = 1 << 1
	// ErrorFatal: abort immediately. Never combined with the other two —
	// Merge special-cases it to always win.
	ErrorFatal ErrorKind = 1 << 2
)

// Merge ORs two error kinds, except that Fatal always dominates: once any
// contributor is Fatal, the merged kind is Fatal alone, matching the
// "never combined" rule in spec.md §7.
func (k ErrorKind) Merge(other ErrorKind) ErrorKind {
	if k == ErrorFatal || other == ErrorFatal {
		return ErrorFatal
	}
	return k | other
}

// ExitCode maps k to the process exit code spec.md §6 specifies.
func (k ErrorKind) ExitCode() int {
	switch {
	case k == ErrorNone:
		return 0
	case k == ErrorFatal:
		return 4
	case k == ErrorBuild|ErrorLogical:
		return 3
	case k == ErrorLogical:
		return 2
	case k == ErrorBuild:
		return 1
	default:
		return 1
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorBuild:
		return "build"
	case ErrorLogical:
		return "logical"
	case ErrorFatal:
		return "fatal"
	case ErrorBuild | ErrorLogical:
		return "build+logical"
	default:
		return "unknown"
	}
}

// Sentinel errors. Each is wrapped with zerr.With at the raise site to
// attach the Place/target/rule metadata a trace chain needs (spec.md §7
// "every error carries a trace chain from the failing target up to a root
// dependency").
var (
	// ErrCycleDetected is raised when get_execution would close a cycle
	// under param-rule identity (spec.md §4.2, testable property 5).
	ErrCycleDetected = zerr.New("dependency cycle detected")
	// ErrAmbiguousRule is raised when more than one rule co-minimally
	// matches a target.
	ErrAmbiguousRule = zerr.New("ambiguous rule match")
	// ErrDuplicateRule is raised by RuleSet.Add when two unparametrized
	// rules claim the same target.
	ErrDuplicateRule = zerr.New("duplicate rule definition")
	// ErrNoRule is raised when a file target has no rule, does not
	// exist, and is not flagged optional.
	ErrNoRule = zerr.New("no rule to build target and target does not exist")
	// ErrMissingDependency is raised when a non-optional dependency's
	// target cannot be resolved to a rule or an existing file.
	ErrMissingDependency = zerr.New("missing dependency")
	// ErrCommandFailed is raised when a spawned command exits non-zero
	// or is killed by a signal.
	ErrCommandFailed = zerr.New("command failed")
	// ErrStaleOutput is raised when a command exits zero but a built file
	// target's modification time is older than the engine's startup
	// timestamp and the target is not a symlink — the command silently
	// did not touch its declared output.
	ErrStaleOutput = zerr.New("timestamp of file after execution of its command is older than startup")
	// ErrParse is raised by the rule-set or dynamic-dependency-file
	// parser on malformed input.
	ErrParse = zerr.New("parse error")
	// ErrUnusedParameter is raised when a parametrized rule declares a
	// parameter its target/dependency patterns never reference.
	ErrUnusedParameter = zerr.New("unused parameter")
	// ErrTargetNotUpToDate is raised in question mode when a target
	// would need to be rebuilt.
	ErrTargetNotUpToDate = zerr.New("target not up to date")
	// ErrFileSystem wraps an unexpected stat/read/write failure that is
	// not a plain ENOENT (spec.md §6 "other failures propagate as BUILD
	// errors").
	ErrFileSystem = zerr.New("file system error")
	// ErrInterrupted is raised (as Fatal) when a termination signal
	// aborts the run.
	ErrInterrupted = zerr.New("interrupted")
	// ErrNoTargetsSpecified is raised by the app layer when Run is
	// invoked with an empty target list.
	ErrNoTargetsSpecified = zerr.New("no targets specified")
	// ErrBuildExecutionFailed wraps a non-ErrorNone Engine.Build outcome
	// for the app layer's caller, so a CLI command can distinguish "the
	// build itself failed" from "the app couldn't even start" via
	// errors.Is.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
