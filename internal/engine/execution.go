package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/zerr"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
)

// execution is the cached, never-freed node for one target (or one
// multi-target rule's shared set of targets), grounded line-by-line on
// original_source/execution.hh's Execution class. Concurrency differs
// from the original deliberately: instead of a single-threaded event loop
// that blocks on Job::wait() and dispatches by pid, each spawned command
// is waited on directly by the goroutine that started it, and dependency
// fan-out uses golang.org/x/sync/errgroup instead of a continuation
// buffer drained by a central loop. The node-level invariants (done
// monotonicity, cache uniqueness, DAG integrity) are unchanged; they are
// now protected by mu instead of being implicitly single-threaded.
//
// A node with no targets at all is the synthetic root: it only ever
// drains bufDefault and never runs a command, same treatment as a
// dynamic-target node.
type execution struct {
	eng *Engine

	mu sync.Mutex

	targets []domain.Target
	rule    *domain.Rule // nil if no rule matched

	done domain.Stack

	parents  map[*execution]domain.Link
	children map[*execution]struct{}

	bufDefault linkQueue
	bufTrivial linkQueue

	timestamp    time.Time
	timestampSet bool

	needBuild bool
	checked   bool
	exists    int8 // -1 absent, 0 unknown, +1 present

	timestampsOld    []time.Time
	timestampsOldSet []bool

	mappingVariable map[string]string

	job ports.Job

	errorKind domain.ErrorKind

	dynamicInitialized bool
}

func newRootExecution(eng *Engine) *execution {
	return &execution{
		eng:             eng,
		done:            domain.NewStack(0),
		parents:         make(map[*execution]domain.Link),
		children:        make(map[*execution]struct{}),
		mappingVariable: make(map[string]string),
	}
}

// newExecution constructs the node for target, looking up its rule and
// seeding bufDefault from the rule's dependency list. Grounded on
// execution.hh's first constructor (the Target/Link/parent overload).
func newExecution(eng *Engine, target domain.Target, link domain.Link, parent *execution) *execution {
	n := &execution{
		eng:             eng,
		done:            domain.NewStack(target.DynamicDepth),
		parents:         make(map[*execution]domain.Link),
		children:        make(map[*execution]struct{}),
		mappingVariable: make(map[string]string),
	}
	n.parents[parent] = link

	base := target.Base()
	rule, _ := eng.ruleSet.Get(base)
	n.rule = rule

	if target.IsDynamic() {
		n.targets = []domain.Target{target}
		// Dynamic executions otherwise ignore the rule: it is looked
		// up only so cycle detection has an identity to compare.
		return n
	}

	if rule != nil {
		n.targets = append(n.targets, rule.Targets...)
		for _, dep := range rule.Dependencies {
			d := dep
			if target.IsTransient() {
				d = d.WithFlags(link.Avoid.GetLowest())
			}
			n.bufDefault.pushDependency(d)
		}
		return n
	}

	n.targets = []domain.Target{target}

	switch {
	case target.IsFile():
		if !link.Flags.Has(domain.FlagOptional) {
			_, ok, err := eng.fs.Stat(target.Name.String())
			if err != nil {
				_ = n.raise(domain.ErrorBuild, domain.ErrFileSystem, "target", target.String())
			} else if !ok {
				_ = n.raise(domain.ErrorBuild, domain.ErrNoRule, "target", target.String())
			}
		}
	case target.IsTransient():
		_ = n.raise(domain.ErrorBuild, domain.ErrNoRule, "target", target.String())
	}

	return n
}

// initialize pushes the synthetic [[A]]->A edge that lets a dynamic
// target discover its base file/transient, exactly once per node.
// Grounded on execution.hh's Execution::initialize.
func (n *execution) initialize(avoid domain.Stack) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.dynamicInitialized || len(n.targets) == 0 || !n.targets[0].IsDynamic() {
		return
	}
	n.dynamicInitialized = true

	target := n.targets[0]
	flagsChild := avoid.GetLowest()
	if target.IsFile() {
		flagsChild = flagsChild.With(domain.FlagRead)
	}

	base := target.Base()
	for i := 1; i < target.DynamicDepth; i++ {
		base = base.Dynamic()
	}
	dep := domain.NewDirectDependency(domain.Place{}, flagsChild, base)
	n.bufDefault.push(domain.Link{
		Avoid:      domain.NewStack(base.DynamicDepth),
		Flags:      flagsChild,
		Place:      domain.Place{},
		Dependency: dep,
	})
}

func (n *execution) raise(kind domain.ErrorKind, sentinel error, kv ...any) error {
	wrapped := withMetadata(sentinel, kv...)
	n.mu.Lock()
	n.errorKind = n.errorKind.Merge(kind)
	n.mu.Unlock()
	return n.eng.raise(kind, wrapped)
}

// finished reports whether, for every dynamic-nesting level, done and
// avoid together cover every flag bit. Grounded on
// execution.hh's Execution::finished(Stack avoid).
func (n *execution) finished(avoid domain.Stack) bool {
	n.mu.Lock()
	done := n.done
	n.mu.Unlock()
	return avoid.Finished(done)
}

func (n *execution) markDoneNeg(avoid domain.Stack) {
	n.mu.Lock()
	n.done = n.done.MarkDone(avoid)
	n.mu.Unlock()
}

// markDoneNegHighest records only the top-level done bit (execution.hh's
// add_highest_neg(avoid.get_highest())), as opposed to markDoneNeg's every-
// level update — the optional-missing-file short-circuit only ever acts at
// the current dynamic-nesting depth, so only its own level should be
// marked done; a dynamic optional dependency's outer levels must stay
// open for later re-evaluation.
func (n *execution) markDoneNegHighest(avoid domain.Stack) {
	n.mu.Lock()
	n.done = n.done.AddHighest(avoid.GetHighest().Complement())
	n.mu.Unlock()
}

func (n *execution) hasError() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.errorKind != domain.ErrorNone
}

func (n *execution) getNeedBuild() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.needBuild
}

func (n *execution) setNeedBuild() {
	n.mu.Lock()
	n.needBuild = true
	n.mu.Unlock()
}

// execute is the Go shape of execution.hh's Execution::execute: continue
// any already-open children, deploy pass-1 (non-trivial) dependencies
// (looping until no new ones appear, which is how a dynamic-dependency
// read feeds fresh deps back into the same call), then pass-2 (trivial,
// only if a build turns out to be needed), then run the command if any.
//
// A nil return doesn't mean the target is up to date, only that nothing
// went wrong locally — callers check n.finished(link.Avoid) to decide
// whether the branch is done.
func (n *execution) execute(ctx context.Context, parent *execution, link domain.Link) error {
	if ctx.Err() != nil {
		return nil
	}

	name := "root"
	if len(n.targets) > 0 {
		name = n.targets[0].String()
	}
	defer n.eng.traceEnter(name, link.Avoid)()

	if link.Flags.Has(domain.FlagOverrideTrivial) {
		link.Flags = link.Flags.Without(domain.FlagTrivial)
		link.Avoid = link.Avoid.RemHighest(domain.FlagTrivial)
	}

	if n.finished(link.Avoid) {
		return nil
	}

	if n.eng.opts.Order != OrderRandom {
		if err := n.executeChildren(ctx, link); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	if n.isOptionalMissingFile(link) {
		n.markDoneNegHighest(link.Avoid)
		return nil
	}

	if link.Flags.Has(domain.FlagTrivial) {
		n.markDoneNeg(link.Avoid)
		return nil
	}

	for {
		if err := n.drainPass1(ctx, link); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		n.mu.Lock()
		empty := n.bufDefault.empty()
		n.mu.Unlock()
		if empty {
			break
		}
	}

	if n.eng.opts.Order == OrderRandom {
		if err := n.executeChildren(ctx, link); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	if n.hasError() {
		n.markDoneNeg(link.Avoid)
		return nil
	}

	isRoot := len(n.targets) == 0
	isDynamic := !isRoot && n.targets[0].IsDynamic()
	if isRoot || isDynamic {
		n.markDoneNeg(link.Avoid)
		return nil
	}

	if err := n.checkNeedBuild(link); err != nil {
		return err
	}

	if !n.getNeedBuild() {
		n.markCached(ctx)
		n.markDoneNeg(link.Avoid)
		return nil
	}

	if err := n.drainPass2(ctx, link); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	noExecution := n.rule == nil || !n.rule.HasCommand()
	if noExecution {
		n.markDoneNeg(link.Avoid)
		return nil
	}

	if n.eng.opts.Question {
		n.markDoneNeg(link.Avoid)
		return n.raise(domain.ErrorBuild, domain.ErrTargetNotUpToDate, "target", n.targets[0].String())
	}

	return n.runCommand(ctx, link)
}

// isOptionalMissingFile implements execute's early optional-dependency
// existence check: an optional dependency on an absent file finishes the
// branch without deploying anything.
func (n *execution) isOptionalMissingFile(link domain.Link) bool {
	if !link.Flags.Has(domain.FlagOptional) || link.Dependency == nil {
		return false
	}
	direct, ok := link.Dependency.(*domain.DirectDependency)
	if !ok || !direct.Target.IsFile() {
		return false
	}
	_, exists, err := n.eng.fs.Stat(direct.Target.Name.String())
	if err != nil {
		_ = n.raise(domain.ErrorBuild, domain.ErrFileSystem, "target", direct.Target.String())
		return true
	}
	n.mu.Lock()
	if exists {
		n.exists = 1
	} else {
		n.exists = -1
	}
	n.mu.Unlock()
	return !exists
}

// executeChildren continues already-started child executions concurrently
// (errgroup, bounded implicitly by the job semaphore at spawn time), and
// unlinks every child that becomes finished. Grounded on
// execution.hh's Execution::execute_children.
func (n *execution) executeChildren(ctx context.Context, link domain.Link) error {
	n.mu.Lock()
	kids := make([]*execution, 0, len(n.children))
	for c := range n.children {
		kids = append(kids, c)
	}
	n.mu.Unlock()

	if n.eng.opts.Order == OrderRandom {
		rand.Shuffle(len(kids), func(i, j int) { kids[i], kids[j] = kids[j], kids[i] })
	}

	g := new(errgroup.Group)
	for _, child := range kids {
		child := child
		g.Go(func() error {
			child.mu.Lock()
			childLink, ok := child.parents[n]
			child.mu.Unlock()
			if !ok {
				return nil
			}
			err := child.execute(ctx, n, childLink)
			if child.finished(childLink.Avoid) {
				n.unlink(child, link.Dependency, link.Avoid, childLink.Dependency, childLink.Avoid, childLink.Flags)
			}
			return err
		})
	}
	return g.Wait()
}

// drainPass1 deploys bufDefault: every child is also queued onto
// bufTrivial with FlagOverrideTrivial set, so pass 2 can force it to run
// even if pass 1 skipped it as trivial.
func (n *execution) drainPass1(ctx context.Context, link domain.Link) error {
	n.mu.Lock()
	children := make([]domain.Link, 0, len(n.bufDefault.items))
	for !n.bufDefault.empty() {
		childLink := n.bufDefault.next()
		n.bufTrivial.push(childLink.WithOverrideTrivial())
		children = append(children, childLink)
	}
	n.mu.Unlock()

	g := new(errgroup.Group)
	for _, childLink := range children {
		childLink := childLink
		g.Go(func() error {
			return n.deploy(ctx, link, childLink)
		})
	}
	return g.Wait()
}

func (n *execution) drainPass2(ctx context.Context, link domain.Link) error {
	n.mu.Lock()
	children := make([]domain.Link, 0, len(n.bufTrivial.items))
	for !n.bufTrivial.empty() {
		children = append(children, n.bufTrivial.next())
	}
	n.mu.Unlock()

	g := new(errgroup.Group)
	for _, childLink := range children {
		childLink := childLink
		g.Go(func() error {
			return n.deploy(ctx, link, childLink)
		})
	}
	return g.Wait()
}

// deploy resolves linkChild's target, gets (or creates) its execution via
// the shared cache, links it as a child, executes it, and unlinks it if it
// finished immediately. Grounded on execution.hh's Execution::deploy.
func (n *execution) deploy(ctx context.Context, link, linkChild domain.Link) error {
	if ctx.Err() != nil {
		return nil
	}

	direct, dynamicDepth := unwrapDirect(linkChild.Dependency)
	if direct == nil {
		return nil
	}

	targetChild := direct.Target
	targetChild.DynamicDepth += dynamicDepth

	avoidChild := linkChild.Avoid
	flagsChildAdditional := domain.FlagSet(0)

	if link.Dependency != nil {
		if d, ok := link.Dependency.(*domain.DirectDependency); ok && d.Target.IsTransient() {
			flagsChildAdditional = flagsChildAdditional.Union(link.Flags)
			avoidChild = avoidChild.AddHighest(link.Flags)
		}
	}

	flagsChild := linkChild.Flags.Union(flagsChildAdditional)

	if flagsChild.Has(domain.FlagExistence) && flagsChild.Has(domain.FlagOptional) {
		return n.raise(domain.ErrorLogical, domain.ErrParse, "target", targetChild.String(), "reason", "existence and optional flags clash")
	}

	child, err := n.eng.cache.getExecution(n.eng, targetChild, domain.Link{
		Avoid:      avoidChild,
		Flags:      flagsChild,
		Place:      direct.Place(),
		Dependency: linkChild.Dependency,
	}, n)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.children[child] = struct{}{}
	n.mu.Unlock()

	linkChildNew := domain.Link{
		Avoid:      avoidChild,
		Flags:      flagsChild,
		Place:      linkChild.Place,
		Dependency: linkChild.Dependency,
	}

	if err := child.execute(ctx, n, linkChildNew); err != nil {
		return err
	}

	if child.finished(avoidChild) {
		n.unlink(child, link.Dependency, link.Avoid, linkChild.Dependency, avoidChild, flagsChild)
	}

	return nil
}

// unlink propagates timestamp/variable/error/need-build state from a
// finished child up to n, then removes the parent/child edge. Grounded on
// execution.hh's Execution::unlink.
func (n *execution) unlink(child *execution, depParent domain.Dependency, avoidParent domain.Stack, depChild domain.Dependency, avoidChild domain.Stack, flagsChild domain.FlagSet) {
	if flagsChild.Has(domain.FlagRead) {
		if direct, ok := depChild.(*domain.DirectDependency); ok && direct.Target.IsFile() {
			doRead := !child.hasError()
			if flagsChild.Has(domain.FlagOptional) {
				child.mu.Lock()
				exists := child.exists
				child.mu.Unlock()
				if exists <= 0 {
					doRead = false
				}
			}
			if doRead {
				n.readDynamics(direct.Target, flagsChild)
			}
		}
	}

	if !flagsChild.Has(domain.FlagExistence) && !flagsChild.Has(domain.FlagRead) {
		child.mu.Lock()
		childTS, childSet := child.timestamp, child.timestampSet
		child.mu.Unlock()
		if childSet {
			n.mu.Lock()
			if !n.timestampSet || n.timestamp.Before(childTS) {
				n.timestamp = childTS
				n.timestampSet = true
			}
			n.mu.Unlock()
		}
	}

	if flagsChild.Has(domain.FlagVariable) {
		child.mu.Lock()
		exists := child.exists
		child.mu.Unlock()
		if exists > 0 {
			if name, content, ok := child.readVariable(depChild); ok {
				n.mu.Lock()
				n.mappingVariable[name] = content
				n.mu.Unlock()
			}
		}
	}

	child.mu.Lock()
	childIsDynamic := len(child.targets) > 0 && child.targets[0].IsDynamic()
	childRule := child.rule
	childVars := make(map[string]string, len(child.mappingVariable))
	for k, v := range child.mappingVariable {
		childVars[k] = v
	}
	child.mu.Unlock()

	propagateVars := childIsDynamic
	if !propagateVars {
		if direct, ok := depChild.(*domain.DirectDependency); ok && direct.Target.IsTransient() && childRule != nil && !childRule.HasCommand() {
			propagateVars = true
		}
	}
	if propagateVars {
		n.mu.Lock()
		for k, v := range childVars {
			n.mappingVariable[k] = v
		}
		n.mu.Unlock()
	}

	child.mu.Lock()
	childErr := child.errorKind
	childNeedBuild := child.needBuild
	child.mu.Unlock()

	if childErr != domain.ErrorNone {
		n.mu.Lock()
		n.errorKind = n.errorKind.Merge(childErr)
		n.mu.Unlock()
	}

	if childNeedBuild && !flagsChild.Has(domain.FlagExistence) && !flagsChild.Has(domain.FlagRead) {
		n.setNeedBuild()
	}

	n.mu.Lock()
	delete(n.children, child)
	n.mu.Unlock()

	child.mu.Lock()
	delete(child.parents, n)
	child.mu.Unlock()
}

// checkNeedBuild performs the one-time existence/staleness check over
// n.targets, setting n.needBuild, n.exists, and n.timestamp. Grounded on
// the "checked" block of execution.hh's Execution::execute.
func (n *execution) checkNeedBuild(link domain.Link) error {
	n.mu.Lock()
	alreadyChecked := n.checked
	if !alreadyChecked {
		n.checked = true
		n.timestampsOld = make([]time.Time, len(n.targets))
		n.timestampsOldSet = make([]bool, len(n.targets))
	}
	n.mu.Unlock()
	if alreadyChecked {
		return nil
	}

	noExecution := n.rule != nil && !n.rule.HasCommand()

	n.mu.Lock()
	n.exists = 1
	n.mu.Unlock()

	for i, target := range n.targets {
		if !target.IsFile() {
			continue
		}

		info, exists, err := n.eng.fs.Stat(target.Name.String())
		if err != nil {
			_ = n.raise(domain.ErrorBuild, domain.ErrFileSystem, "target", target.String())
			n.markDoneNeg(link.Avoid)
			return fmt.Errorf("stat %s: %w", target.String(), err)
		}

		if exists {
			n.mu.Lock()
			n.timestampsOld[i] = info.ModTime
			n.timestampsOldSet[i] = true
			n.mu.Unlock()

			n.warnFutureFile(info.ModTime, target.Name.String())

			n.mu.Lock()
			needBuild := !n.needBuild && n.timestampSet && info.ModTime.Before(n.timestamp) && !noExecution
			n.mu.Unlock()
			if needBuild {
				n.setNeedBuild()
			}

			continue
		}

		n.mu.Lock()
		n.exists = -1
		n.mu.Unlock()

		if link.Flags.Has(domain.FlagOptional) {
			continue
		}

		if noExecution {
			if n.rule == nil || len(n.rule.Dependencies) == 0 {
				return n.raise(domain.ErrorBuild, domain.ErrTargetNotUpToDate, "target", target.String(), "reason", "file without command and without dependencies does not exist")
			}
			return n.raise(domain.ErrorBuild, domain.ErrTargetNotUpToDate, "target", target.String(), "reason", "file without command does not exist although dependencies are up to date")
		}

		n.setNeedBuild()
	}

	n.mu.Lock()
	for i, set := range n.timestampsOldSet {
		if set && (!n.timestampSet || n.timestamp.After(n.timestampsOld[i])) {
			n.timestamp = n.timestampsOld[i]
			n.timestampSet = true
		}
	}
	n.mu.Unlock()

	if !n.getNeedBuild() {
		n.checkTransientNeedsBuild(noExecution)
	}

	return nil
}

func (n *execution) checkTransientNeedsBuild(noExecution bool) {
	n.mu.Lock()
	hasFile := false
	for _, t := range n.targets {
		if t.IsFile() {
			hasFile = true
		}
	}
	n.mu.Unlock()

	for _, target := range n.targets {
		if !target.IsTransient() {
			continue
		}
		if !n.eng.cache.transientBuilt(target.Name) {
			if !noExecution && !hasFile {
				n.setNeedBuild()
			}
			break
		}
	}
}

func (n *execution) warnFutureFile(modTime time.Time, filename string) {
	last := n.eng.cache.lastTimestamp()
	if last.Before(modTime) {
		n.eng.logger.Warn("file has modification time in the future", "file", filename)
	}
}

// readDynamics reads target's content, parses it into a flat list of
// dependency names, and pushes each one re-wrapped with one fewer Dynamic
// level than n's own target onto n.bufDefault. By default the content is
// split on whitespace and every token becomes one file dependency; flag
// prefixes, "@" transient names and bracketed dynamic names in the file are
// not interpreted but taken as file names. flags carries FlagNewlineSeparated
// or FlagNulSeparated when the edge instead declares the flat,
// one-name-per-line or NUL-delimited mode. Grounded on execution.hh's
// Execution::read_dynamics.
func (n *execution) readDynamics(target domain.Target, flags domain.FlagSet) {
	data, err := n.eng.fs.ReadFile(target.Name.String())
	if err != nil {
		_ = n.raise(domain.ErrorBuild, domain.ErrFileSystem, "target", target.String())
		return
	}

	depth := 0
	n.mu.Lock()
	if len(n.targets) > 0 {
		depth = n.targets[0].DynamicDepth - 1
	}
	n.mu.Unlock()
	if depth < 0 {
		depth = 0
	}

	names := n.parseDynamicNames(data, flags)
	for _, name := range names {
		child := domain.NewFileTarget(name)
		child.DynamicDepth = depth
		dep := domain.NewDirectDependency(domain.Place{}, 0, child)
		n.mu.Lock()
		n.bufDefault.push(domain.NewLink(dep))
		n.mu.Unlock()
	}
}

// parseDynamicNames splits data into dependency names, consulting the
// engine's dynamic-file cache first so re-reading identical content within
// one build doesn't re-split it. The default mode tokenizes on whitespace
// and a '#' starts a line comment; tokens are returned verbatim, without
// parsing dependency flags, '@' or brackets. FlagNewlineSeparated and FlagNulSeparated select
// the flat modes instead, splitting only on '\n' or NUL and taking each
// non-blank line/record as one name without further tokenization.
func (n *execution) parseDynamicNames(data []byte, flags domain.FlagSet) []string {
	if n.eng.dynCache != nil {
		if cached, ok := n.eng.dynCache.Lookup(data); ok {
			return cached
		}
	}

	var names []string
	switch {
	case flags.Has(domain.FlagNulSeparated):
		for _, record := range bytes.Split(data, []byte{0}) {
			name := strings.TrimSpace(string(record))
			if name != "" {
				names = append(names, name)
			}
		}
	case flags.Has(domain.FlagNewlineSeparated):
		for _, line := range strings.Split(string(data), "\n") {
			name := strings.TrimSpace(line)
			if name != "" {
				names = append(names, name)
			}
		}
	default:
		for _, line := range strings.Split(string(data), "\n") {
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			names = append(names, strings.Fields(line)...)
		}
	}

	if n.eng.dynCache != nil {
		n.eng.dynCache.Store(data, names)
	}
	return names
}

// markCached records, via the engine's telemetry, that n's target was
// found already up to date and will not be built.
func (n *execution) markCached(ctx context.Context) {
	if n.eng.tracer == nil || len(n.targets) == 0 {
		return
	}
	_, vertex := n.eng.tracer.Record(ctx, n.targets[0].String())
	vertex.Cached()
}

// runCommand records a telemetry vertex for n's target, delegates to
// runCommandBody, and marks the vertex complete with the outcome —
// grounded on the progrock recorder's Record/Complete pairing rather than
// on anything in original_source/execution.hh, which has no progress-
// reporting concept of its own.
func (n *execution) runCommand(ctx context.Context, link domain.Link) error {
	var vertex ports.Vertex
	if n.eng.tracer != nil && len(n.targets) > 0 {
		var vctx context.Context
		vctx, vertex = n.eng.tracer.Record(ctx, n.targets[0].String())
		ctx = vctx
	}

	err := n.runCommandBody(ctx, link)

	if vertex != nil {
		vertex.Complete(err)
	}
	return err
}

// runCommandBody spawns the rule's command (or performs a hardcode/copy)
// and waits for it, folding execution.hh's Execution::waited directly into
// the same call rather than dispatching through a pid-keyed table —
// idiomatic since each goroutine here owns exactly one job.
func (n *execution) runCommandBody(ctx context.Context, link domain.Link) error {
	for _, target := range n.targets {
		if target.IsTransient() {
			n.eng.cache.markTransientBuilt(target.Name, time.Now())
		}
	}

	n.eng.markWorked()
	n.printCommand()

	if n.rule.IsHardcode {
		target := n.rule.SingleTarget()
		if err := n.eng.fs.WriteFile(target.Name.String(), []byte(n.rule.HardcodedContent)); err != nil {
			_ = n.raise(domain.ErrorBuild, domain.ErrCommandFailed, "target", target.String())
			n.markDoneNeg(link.Avoid)
			return fmt.Errorf("write %s: %w", target.String(), err)
		}
		n.markDoneNeg(link.Avoid)
		return nil
	}

	if err := n.eng.jobs.acquire(ctx); err != nil {
		return nil
	}
	defer n.eng.jobs.release()

	var job ports.Job
	var err error
	var stdout *bytes.Buffer

	if n.rule.IsCopy {
		target := n.rule.SingleTarget()
		job, err = n.eng.spawner.StartCopy(ctx, target.Name.String(), n.rule.CopySource, n.rule.Place)
	} else {
		env := n.eng.env.Build(n.snapshotMapping())

		var stdoutWriter io.Writer
		if n.rule.OutputRedirectIndex >= 0 {
			stdout = &bytes.Buffer{}
			stdoutWriter = stdout
		} else if vertex, ok := ports.VertexFromContext(ctx); ok {
			stdoutWriter = vertex.Stdout()
		}

		var stdinReader io.Reader
		if n.rule.InputRedirect >= 0 && n.rule.InputRedirect < len(n.rule.Dependencies) {
			if direct, ok := n.rule.Dependencies[n.rule.InputRedirect].(*domain.DirectDependency); ok {
				if data, readErr := n.eng.fs.ReadFile(direct.Target.Name.String()); readErr == nil {
					stdinReader = bytes.NewReader(data)
				}
			}
		}

		job, err = n.eng.spawner.Start(ctx, n.rule.Command.Text, env, stdoutWriter, stdinReader, n.rule.Command.Place)
	}

	if err != nil {
		_ = n.raise(domain.ErrorBuild, domain.ErrCommandFailed, "target", n.targets[0].String())
		n.markDoneNeg(link.Avoid)
		return err
	}

	n.mu.Lock()
	n.job = job
	n.mu.Unlock()
	n.eng.jobs.track(job)
	defer n.eng.jobs.untrack(job)

	status, waitErr := job.Wait()
	n.eng.cache.noteTimestamp(time.Now())

	n.markDoneNeg(link.Avoid)

	if waitErr != nil || !status.Success() {
		n.eng.logger.Error(domain.ErrCommandFailed, "target", n.targets[0].String(), "exit_code", status.ExitCode, "signal", status.Signal)
		if !n.eng.opts.NoDelete {
			n.removeIfExisting(true)
		}
		return n.raise(domain.ErrorBuild, domain.ErrCommandFailed, "target", n.targets[0].String())
	}

	if stdout != nil {
		target := n.rule.Targets[n.rule.OutputRedirectIndex]
		if writeErr := n.eng.fs.WriteFile(target.Name.String(), stdout.Bytes()); writeErr != nil {
			return n.raise(domain.ErrorBuild, domain.ErrCommandFailed, "target", target.String(), "reason", "could not write redirected output")
		}
	}

	return n.verifyBuiltFiles()
}

// verifyBuiltFiles checks, for each file target, that the command actually
// produced it and that its timestamp is not older than the engine's
// startup — a command that exits zero without touching its declared
// output is a silently-failed command (execution.hh's post-command target
// stat loop, lines 945-984). A symlinked output is excused from the
// staleness check, since a symlink's own mtime says nothing about its
// target's freshness.
func (n *execution) verifyBuiltFiles() error {
	n.mu.Lock()
	n.exists = -1
	n.mu.Unlock()

	allBuilt := true
	var staleTarget *domain.Target
	startup := n.eng.cache.startupTimestamp()

	for i, target := range n.targets {
		if !target.IsFile() {
			continue
		}
		info, ok, err := n.eng.fs.Stat(target.Name.String())
		if err != nil || !ok {
			allBuilt = false
			continue
		}
		n.warnFutureFile(info.ModTime, target.Name.String())
		n.mu.Lock()
		if !n.timestampSet || n.timestamp.Before(info.ModTime) {
			n.timestamp = info.ModTime
			n.timestampSet = true
		}
		n.mu.Unlock()

		if staleTarget == nil && info.ModTime.Before(startup) && !info.IsSymlink {
			staleTarget = &n.targets[i]
		}
	}

	n.mu.Lock()
	if allBuilt {
		n.exists = 1
	}
	n.mu.Unlock()

	if !allBuilt {
		return n.raise(domain.ErrorBuild, domain.ErrCommandFailed, "target", n.targets[0].String(), "reason", "file was not built by command")
	}
	if staleTarget != nil {
		return n.raise(domain.ErrorBuild, domain.ErrStaleOutput, "target", staleTarget.String())
	}
	return nil
}

// removeIfExisting deletes each file target whose mtime advanced past the
// recorded pre-build timestamp, per testable property 6 / scenario S6.
// Grounded on execution.hh's Execution::remove_if_existing.
func (n *execution) removeIfExisting(output bool) bool {
	removed := false
	n.mu.Lock()
	targets := append([]domain.Target(nil), n.targets...)
	oldSet := append([]bool(nil), n.timestampsOldSet...)
	old := append([]time.Time(nil), n.timestampsOld...)
	n.mu.Unlock()

	for i, target := range targets {
		if !target.IsFile() {
			continue
		}
		info, exists, err := n.eng.fs.Stat(target.Name.String())
		if err != nil || !exists {
			continue
		}
		wasOld := i < len(oldSet) && oldSet[i]
		if !wasOld || old[i].Before(info.ModTime) {
			if output {
				n.eng.logger.Info("removing file because command failed", "file", target.Name.String())
			}
			removed = true
			_ = n.eng.fs.Remove(target.Name.String())
		}
	}
	return removed
}

func (n *execution) snapshotMapping() map[string]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	m := make(map[string]string, len(n.mappingVariable))
	for k, v := range n.mappingVariable {
		m[k] = v
	}
	return m
}

// readVariable trims n's sole file target's content per spec.md testable
// property 8, "trim_ascii_ws".
func (n *execution) readVariable(dep domain.Dependency) (name, content string, ok bool) {
	direct, isDirect := dep.(*domain.DirectDependency)
	if !isDirect {
		return "", "", false
	}
	data, err := n.eng.fs.ReadFile(direct.Target.Name.String())
	if err != nil {
		return "", "", false
	}
	return direct.Variable, strings.TrimFunc(string(data), isASCIISpace), true
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (n *execution) printCommand() {
	if n.rule == nil {
		return
	}
	var b strings.Builder
	switch {
	case n.rule.IsHardcode:
		fmt.Fprintf(&b, "Creating %s", n.rule.SingleTarget().String())
	case n.rule.IsCopy:
		fmt.Fprintf(&b, "cp %s %s", n.rule.CopySource, n.rule.SingleTarget().String())
	case n.rule.Command != nil:
		b.WriteString(n.rule.Command.Text)
	default:
		return
	}
	n.eng.logger.Info(b.String())
}

func unwrapDirect(dep domain.Dependency) (*domain.DirectDependency, int) {
	depth := 0
	for {
		dyn, ok := dep.(*domain.DynamicDependency)
		if !ok {
			break
		}
		dep = dyn.Inner
		depth++
	}
	direct, _ := dep.(*domain.DirectDependency)
	return direct, depth
}

func withMetadata(err error, kv ...any) error {
	wrapped := err
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		wrapped = zerr.With(wrapped, key, kv[i+1])
	}
	if wrapped == err {
		return err
	}
	// zerr.With returns a copy that no longer unwraps to err, so err is
	// joined back in as a second, zero-width %w operand: errors.Is still
	// matches the sentinel and the message stays the zerr one.
	return fmt.Errorf("%w%.0w", wrapped, err)
}
