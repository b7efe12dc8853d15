// Package engine implements the dependency-driven build scheduler: the
// execution cache, the per-target Execution node, and the bounded-
// concurrency job runner. Grounded throughout on
// _examples/original_source/execution.hh.
package engine

import (
	"context"
	"strings"
	"sync"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
)

// Order selects the scheduling order execute_children uses when more than
// one child dependency is ready to continue, per spec.md §4.5/§9.
type Order int

const (
	// OrderDFS continues already-open children before starting new
	// ones, depth-first.
	OrderDFS Order = iota
	// OrderRandom starts new children before continuing already-open
	// ones, and shuffles continuation order.
	OrderRandom
)

// Options configures one Engine run.
type Options struct {
	// Jobs is the `-j` job budget: the maximum number of outstanding
	// child processes.
	Jobs int
	// KeepGoing is `-k`: Build/Logical errors in one branch don't stop
	// independent branches.
	KeepGoing bool
	// Question is `-n`/question mode: report whether targets are up to
	// date without building them.
	Question bool
	// NoDelete disables remove_if_existing's cleanup of partially built
	// files after a command failure.
	NoDelete bool
	// Order selects DFS or random scheduling order.
	Order Order
	// Verbose turns on the padded per-call trace log (supplemented
	// feature: verbose trace mode).
	Verbose bool
}

// Engine owns the execution cache and drives one build invocation.
type Engine struct {
	cache    *cache
	jobs     *jobSlots
	ruleSet  ports.RuleSet
	fs       ports.FileSystem
	spawner  ports.ProcessSpawner
	env      ports.EnvironmentFactory
	logger   ports.Logger
	tracer   ports.Telemetry
	dynCache ports.DynamicCache
	opts     Options

	errMu   sync.Mutex
	errKind domain.ErrorKind

	cancel context.CancelFunc

	depth   int // recursion depth, for Verbose padding
	depthMu sync.Mutex

	worked bool
}

// traceEnter logs one padded "execute" line for target when Verbose is on
// and returns a closure that logs the matching exit line, mirroring
// original_source/execution.hh's own optional execution trace (its
// debug builds print one line per Execution::execute call, indented by
// recursion depth, alongside the edge's avoid stack). Indentation uses
// e.depth, incremented/decremented under depthMu since execute runs
// concurrently across sibling branches. avoid is rendered via
// domain.Stack.Format so the trace shows which flags the edge has
// already claimed at each dynamic-nesting level.
func (e *Engine) traceEnter(target string, avoid domain.Stack) func() {
	if !e.opts.Verbose {
		return func() {}
	}

	e.depthMu.Lock()
	depth := e.depth
	e.depth++
	e.depthMu.Unlock()

	target = target + " [" + avoid.Format() + "]"

	pad := strings.Repeat("  ", depth)
	e.logger.Debug(pad + "execute " + target)

	return func() {
		e.depthMu.Lock()
		e.depth--
		e.depthMu.Unlock()
		e.logger.Debug(pad + "done " + target)
	}
}

// New builds an Engine wired to the given ports.
func New(ruleSet ports.RuleSet, fs ports.FileSystem, spawner ports.ProcessSpawner, env ports.EnvironmentFactory, logger ports.Logger, tracer ports.Telemetry, dynCache ports.DynamicCache, opts Options) *Engine {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Engine{
		cache:    newCache(ruleSet),
		jobs:     newJobSlots(opts.Jobs),
		ruleSet:  ruleSet,
		fs:       fs,
		spawner:  spawner,
		env:      env,
		logger:   logger,
		tracer:   tracer,
		dynCache: dynCache,
		opts:     opts,
	}
}

// Build runs the engine against the given root targets, per spec.md §2's
// system overview: construct a synthetic root whose dependencies are the
// requested targets, and execute it to a fixed point.
//
// The returned error, if non-nil, is the first raised error (useful for a
// concise top-level message); the returned domain.ErrorKind is the OR of
// every error raised during the run, which is what decides the process
// exit code per spec.md §6/§7, including in keep-going mode where more
// than one branch can fail independently.
func (e *Engine) Build(ctx context.Context, targets []domain.Target) (domain.ErrorKind, error) {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer cancel()

	root := newRootExecution(e)
	for _, t := range targets {
		dep := domain.NewDirectDependency(domain.Place{}, 0, t)
		root.bufDefault.pushDependency(dep)
	}

	firstErr := root.execute(ctx, nil, domain.Link{})

	if e.errKindOf() != domain.ErrorNone {
		e.jobs.TerminateAll()
	}

	return e.errKindOf(), firstErr
}

// raise OR-merges kind into the accumulated error kind and, unless
// keep-going is enabled (or kind is Fatal, which always short-circuits),
// cancels the build so no new work starts. Mirrors
// original_source/execution.hh's raise()/the design note "Throw-for-error
// vs accumulate": this Engine picks "return Err and propagate" uniformly,
// with the accumulator doing the OR-merging the original does in `error`
// fields scattered across nodes.
func (e *Engine) raise(kind domain.ErrorKind, err error) error {
	e.errMu.Lock()
	e.errKind = e.errKind.Merge(kind)
	e.errMu.Unlock()

	if kind == domain.ErrorFatal || !e.opts.KeepGoing {
		if e.cancel != nil {
			e.cancel()
		}
	}
	return err
}

func (e *Engine) errKindOf() domain.ErrorKind {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.errKind
}

func (e *Engine) markWorked() {
	e.errMu.Lock()
	e.worked = true
	e.errMu.Unlock()
}

// Worked reports whether any command actually ran during the build.
func (e *Engine) Worked() bool {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.worked
}
