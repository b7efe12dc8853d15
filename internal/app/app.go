// Package app implements the application layer: it loads a rule base,
// resolves the requested command-line targets, drives one Engine build
// behind an always-on Bubble Tea progress UI, and translates the outcome
// into a process-friendly error.
package app

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"go.nomake.dev/nomake/internal/adapters/telemetry/tuibridge"
	"go.nomake.dev/nomake/internal/adapters/tui"
	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
	"go.nomake.dev/nomake/internal/engine"
	"go.trai.ch/zerr"
)

// App wires the loaded ports into one build invocation per Run call.
type App struct {
	loader   ports.ConfigLoader
	ruleSet  ports.RuleSet
	fs       ports.FileSystem
	spawner  ports.ProcessSpawner
	env      ports.EnvironmentFactory
	logger   ports.Logger
	dynCache ports.DynamicCache

	teaOpts []tea.ProgramOption
}

// New creates an App from its wired ports.
func New(
	loader ports.ConfigLoader,
	ruleSet ports.RuleSet,
	fs ports.FileSystem,
	spawner ports.ProcessSpawner,
	env ports.EnvironmentFactory,
	logger ports.Logger,
	dynCache ports.DynamicCache,
) *App {
	return &App{
		loader:   loader,
		ruleSet:  ruleSet,
		fs:       fs,
		spawner:  spawner,
		env:      env,
		logger:   logger,
		dynCache: dynCache,
	}
}

// WithTeaOptions appends options forwarded to every tea.Program Run
// creates, used by tests to run headless (tea.WithoutRenderer) and by the
// CLI layer to wire real stdin/stdout.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOpts = append(a.teaOpts, opts...)
	return a
}

// BuildError reports Engine.Build's accumulated domain.ErrorKind alongside
// the first error it raised, so the CLI layer can map a failed build to
// the exact process exit code spec.md §6/§7 specifies instead of
// collapsing every failure to a flat 1.
type BuildError struct {
	Kind domain.ErrorKind
	Err  error
}

func (e *BuildError) Error() string { return e.Err.Error() }
func (e *BuildError) Unwrap() error { return e.Err }

// RunOptions configures one Run invocation; each field maps to an
// engine.Options field of the same shape, plus the CLI-only Inspect flag.
type RunOptions struct {
	ConfigPath string
	Jobs       int
	KeepGoing  bool
	Question   bool
	NoDelete   bool
	Order      engine.Order
	Verbose    bool
	// Inspect keeps the progress UI open after the build completes,
	// instead of quitting the program as soon as Engine.Build returns.
	Inspect bool
}

// Run loads opts.ConfigPath, resolves targetArgs to domain.Targets, and
// drives one Engine.Build behind a Bubble Tea progress program.
func (a *App) Run(ctx context.Context, targetArgs []string, opts RunOptions) error {
	if len(targetArgs) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	if err := a.loadRules(opts.ConfigPath); err != nil {
		return err
	}

	targets := make([]domain.Target, len(targetArgs))
	for i, arg := range targetArgs {
		targets[i] = parseTargetArg(arg)
	}

	model := tui.NewModel()
	program := tea.NewProgram(model, a.teaOpts...)
	bridge := tuibridge.New(program)

	eng := engine.New(a.ruleSet, a.fs, a.spawner, a.env, a.logger, bridge, a.dynCache, engine.Options{
		Jobs:      opts.Jobs,
		KeepGoing: opts.KeepGoing,
		Question:  opts.Question,
		NoDelete:  opts.NoDelete,
		Order:     opts.Order,
		Verbose:   opts.Verbose,
	})

	var kind domain.ErrorKind
	var buildErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		// InitTasks sends to the program, which only receives once
		// program.Run below has started its event loop.
		bridge.InitTasks(targetArgs)
		kind, buildErr = eng.Build(ctx, targets)
		if !opts.Inspect {
			program.Quit()
		}
	}()

	if _, err := program.Run(); err != nil {
		<-done
		return zerr.Wrap(err, "progress ui failed")
	}
	<-done

	if kind != domain.ErrorNone {
		msg := "build did not complete"
		if buildErr != nil {
			msg = buildErr.Error()
		}
		return &BuildError{Kind: kind, Err: zerr.Wrap(domain.ErrBuildExecutionFailed, msg)}
	}
	return nil
}

// loadRules reads configPath (defaulting to nomake.yaml) and registers its
// rules in a.ruleSet.
func (a *App) loadRules(configPath string) error {
	if configPath == "" {
		configPath = "nomake.yaml"
	}

	rules, err := a.loader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if err := a.ruleSet.Add(rules); err != nil {
		return zerr.Wrap(err, "failed to register rules")
	}
	return nil
}

// ListRules loads configPath and returns every registered rule, in
// declaration order, for the "rules" command's listing.
func (a *App) ListRules(configPath string) ([]*domain.Rule, error) {
	if err := a.loadRules(configPath); err != nil {
		return nil, err
	}
	return a.ruleSet.All(), nil
}

// parseTargetArg turns one command-line argument into a domain.Target. A
// leading "@" selects a transient target (mirroring the rule base's own
// "@name" transient syntax); anything else is a file path.
func parseTargetArg(arg string) domain.Target {
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		return domain.NewTransientTarget(name)
	}
	return domain.NewFileTarget(arg)
}
