package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
	"go.nomake.dev/nomake/internal/core/ports/mocks"
	"go.nomake.dev/nomake/internal/engine"
)

type harness struct {
	ruleSet  *mocks.MockRuleSet
	fs       *mocks.MockFileSystem
	spawner  *mocks.MockProcessSpawner
	env      *mocks.MockEnvironmentFactory
	logger   *mocks.MockLogger
	dynCache *mocks.MockDynamicCache
}

func newHarness(ctrl *gomock.Controller) *harness {
	return &harness{
		ruleSet:  mocks.NewMockRuleSet(ctrl),
		fs:       mocks.NewMockFileSystem(ctrl),
		spawner:  mocks.NewMockProcessSpawner(ctrl),
		env:      mocks.NewMockEnvironmentFactory(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		dynCache: mocks.NewMockDynamicCache(ctrl),
	}
}

func (h *harness) newEngine(opts engine.Options) *engine.Engine {
	return engine.New(h.ruleSet, h.fs, h.spawner, h.env, h.logger, nil, h.dynCache, opts)
}

func TestEngine_Build_AlreadyUpToDoesNotRunCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	h.ruleSet.EXPECT().Get(target).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: time.Now()}, true, nil).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
	assert.False(t, eng.Worked())
}

func TestEngine_Build_MissingFileWithNoRuleRaisesNoRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("missing.txt")
	h.ruleSet.EXPECT().Get(target).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("missing.txt").Return(ports.FileInfo{}, false, nil).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	// The no-rule check happens while constructing the target's execution
	// node, before there's a call chain for the error to propagate up
	// through — only the accumulated ErrorKind observes it here, not the
	// returned error.
	kind, _ := eng.Build(context.Background(), []domain.Target{target})

	assert.Equal(t, domain.ErrorBuild, kind)
}

func TestEngine_Build_RunsCommandWhenDependencyIsNewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	depTarget := domain.NewFileTarget("in")
	rule := &domain.Rule{
		Targets:             []domain.Target{target},
		Dependencies:        []domain.Dependency{domain.NewDirectDependency(domain.Place{}, 0, depTarget)},
		Command:             &domain.Command{Text: "build"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(depTarget).Return(nil, nil).AnyTimes()

	old := time.Now().Add(-time.Hour)
	newer := time.Now()
	// checkNeedBuild sees "out" stale against "in" and triggers the build;
	// verifyBuiltFiles then sees the fresh timestamp the command left behind,
	// taken while the command runs and so not older than the engine's startup.
	var built time.Time
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: old}, true, nil)
	h.fs.EXPECT().Stat("out").DoAndReturn(func(string) (ports.FileInfo, bool, error) {
		return ports.FileInfo{ModTime: built}, true, nil
	})
	h.fs.EXPECT().Stat("in").Return(ports.FileInfo{ModTime: newer}, true, nil).AnyTimes()
	h.env.EXPECT().Build(gomock.Any()).Return([]string{}).AnyTimes()

	job := mocks.NewMockJob(ctrl)
	job.EXPECT().Pid().Return(1).AnyTimes()
	job.EXPECT().Wait().DoAndReturn(func() (ports.ExitStatus, error) {
		built = time.Now()
		return ports.ExitStatus{ExitCode: 0}, nil
	})
	h.spawner.EXPECT().Start(gomock.Any(), "build", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(job, nil)
	h.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
	assert.True(t, eng.Worked())
}

func TestEngine_Build_CommandFailureRemovesPartialOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	rule := &domain.Rule{
		Targets:             []domain.Target{target},
		Command:             &domain.Command{Text: "false"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	// The first Stat (checkNeedBuild) sees no file, so the command needs
	// to run; the second Stat (removeIfExisting, after the command fails)
	// sees the partial output the failed command left behind.
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{}, false, nil)
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: time.Now()}, true, nil)
	h.env.EXPECT().Build(gomock.Any()).Return([]string{}).AnyTimes()
	h.fs.EXPECT().Remove("out").Return(nil)

	job := mocks.NewMockJob(ctrl)
	job.EXPECT().Pid().Return(1).AnyTimes()
	job.EXPECT().Wait().Return(ports.ExitStatus{ExitCode: 1}, nil)
	h.spawner.EXPECT().Start(gomock.Any(), "false", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(job, nil)
	h.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	h.logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, domain.ErrorBuild, kind)
}

func TestEngine_Build_NoDeleteSkipsCleanup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	rule := &domain.Rule{
		Targets:             []domain.Target{target},
		Command:             &domain.Command{Text: "false"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{}, false, nil).AnyTimes()
	h.env.EXPECT().Build(gomock.Any()).Return([]string{}).AnyTimes()
	// No Remove expectation: NoDelete must prevent removeIfExisting's call.

	job := mocks.NewMockJob(ctrl)
	job.EXPECT().Pid().Return(1).AnyTimes()
	job.EXPECT().Wait().Return(ports.ExitStatus{ExitCode: 1}, nil)
	h.spawner.EXPECT().Start(gomock.Any(), "false", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(job, nil)
	h.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	h.logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1, NoDelete: true})
	_, err := eng.Build(context.Background(), []domain.Target{target})
	require.Error(t, err)
}

func TestEngine_Build_OptionalMissingDependencySkipsRebuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	optDep := domain.NewFileTarget("maybe.txt")
	rule := &domain.Rule{
		Targets: []domain.Target{target},
		Dependencies: []domain.Dependency{
			domain.NewDirectDependency(domain.Place{}, domain.FlagSet(0).With(domain.FlagOptional), optDep),
		},
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(optDep).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: time.Now()}, true, nil).AnyTimes()
	h.fs.EXPECT().Stat("maybe.txt").Return(ports.FileInfo{}, false, nil).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
}

func TestEngine_Build_KeepGoingAccumulatesIndependentFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	good := domain.NewFileTarget("good")
	bad := domain.NewFileTarget("bad")

	h.ruleSet.EXPECT().Get(good).Return(nil, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(bad).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("good").Return(ports.FileInfo{ModTime: time.Now()}, true, nil).AnyTimes()
	h.fs.EXPECT().Stat("bad").Return(ports.FileInfo{}, false, nil).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1, KeepGoing: true})
	// Both targets raise during construction of their execution nodes
	// rather than mid-command, so the failure only surfaces through the
	// accumulated ErrorKind, not the returned error.
	kind, _ := eng.Build(context.Background(), []domain.Target{good, bad})

	assert.Equal(t, domain.ErrorBuild, kind)
}

func TestEngine_Build_CycleBetweenRulesIsLogicalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	a := domain.NewFileTarget("a")
	b := domain.NewFileTarget("b")
	ruleA := &domain.Rule{
		Targets:             []domain.Target{a},
		Dependencies:        []domain.Dependency{domain.NewDirectDependency(domain.Place{}, 0, b)},
		Command:             &domain.Command{Text: "build-a"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	ruleB := &domain.Rule{
		Targets:             []domain.Target{b},
		Dependencies:        []domain.Dependency{domain.NewDirectDependency(domain.Place{}, 0, a)},
		Command:             &domain.Command{Text: "build-b"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(a).Return(ruleA, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(b).Return(ruleB, nil).AnyTimes()
	h.fs.EXPECT().Stat(gomock.Any()).Return(ports.FileInfo{}, false, nil).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{a})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycleDetected))
	assert.Equal(t, domain.ErrorLogical, kind)
}

func TestEngine_Build_QuestionModeReportsWithoutRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	rule := &domain.Rule{
		Targets:             []domain.Target{target},
		Command:             &domain.Command{Text: "build"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{}, false, nil).AnyTimes()
	// No spawner.Start expectation: question mode must never run the command.

	eng := h.newEngine(engine.Options{Jobs: 1, Question: true})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTargetNotUpToDate)
	assert.Equal(t, domain.ErrorBuild, kind)
	assert.False(t, eng.Worked())
}

func TestEngine_Build_VerboseEmitsExecuteTrace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	h.ruleSet.EXPECT().Get(target).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: time.Now()}, true, nil).AnyTimes()
	h.logger.EXPECT().Debug(gomock.Any()).MinTimes(1)

	eng := h.newEngine(engine.Options{Jobs: 1, Verbose: true})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
}

func TestEngine_Build_QuietProducesNoDebugTrace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	h.ruleSet.EXPECT().Get(target).Return(nil, nil).AnyTimes()
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: time.Now()}, true, nil).AnyTimes()
	h.logger.EXPECT().Debug(gomock.Any()).Times(0)

	eng := h.newEngine(engine.Options{Jobs: 1})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
}

func TestEngine_Build_RandomOrderStillBuildsAllDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHarness(ctrl)

	target := domain.NewFileTarget("out")
	depA := domain.NewFileTarget("a")
	depB := domain.NewFileTarget("b")
	rule := &domain.Rule{
		Targets: []domain.Target{target},
		Dependencies: []domain.Dependency{
			domain.NewDirectDependency(domain.Place{}, 0, depA),
			domain.NewDirectDependency(domain.Place{}, 0, depB),
		},
		Command:             &domain.Command{Text: "build"},
		IsCommand:           true,
		InputRedirect:       -1,
		OutputRedirectIndex: -1,
	}
	h.ruleSet.EXPECT().Get(target).Return(rule, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(depA).Return(nil, nil).AnyTimes()
	h.ruleSet.EXPECT().Get(depB).Return(nil, nil).AnyTimes()

	old := time.Now().Add(-time.Hour)
	newer := time.Now()
	var built time.Time
	h.fs.EXPECT().Stat("out").Return(ports.FileInfo{ModTime: old}, true, nil)
	h.fs.EXPECT().Stat("out").DoAndReturn(func(string) (ports.FileInfo, bool, error) {
		return ports.FileInfo{ModTime: built}, true, nil
	})
	h.fs.EXPECT().Stat("a").Return(ports.FileInfo{ModTime: newer}, true, nil).AnyTimes()
	h.fs.EXPECT().Stat("b").Return(ports.FileInfo{ModTime: newer}, true, nil).AnyTimes()
	h.env.EXPECT().Build(gomock.Any()).Return([]string{}).AnyTimes()

	job := mocks.NewMockJob(ctrl)
	job.EXPECT().Pid().Return(1).AnyTimes()
	job.EXPECT().Wait().DoAndReturn(func() (ports.ExitStatus, error) {
		built = time.Now()
		return ports.ExitStatus{ExitCode: 0}, nil
	})
	h.spawner.EXPECT().Start(gomock.Any(), "build", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(job, nil)
	h.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	eng := h.newEngine(engine.Options{Jobs: 2, Order: engine.OrderRandom})
	kind, err := eng.Build(context.Background(), []domain.Target{target})

	assert.NoError(t, err)
	assert.Equal(t, domain.ErrorNone, kind)
	assert.True(t, eng.Worked())
}
