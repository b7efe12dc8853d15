package engine

import (
	"sync"
	"time"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
)

// cache is the process-wide target -> *execution map. Nodes are never
// freed once created; "never freed" is the memory-management strategy
// spec.md §9 ("Cache that is also a graph") describes, and a Go map with
// live pointers is the direct, idiomatic expression of it — no arena, no
// generational index needed since the garbage collector already handles
// reclaiming the whole graph at process exit.
//
// Grounded on original_source/execution.hh's executions_by_target,
// executions_by_pid, transients, and get_execution/find_cycle.
type cache struct {
	mu sync.Mutex

	byTarget map[domain.Target]*execution

	// transients records the timestamp at which a transient target was
	// last (re)built during this process invocation — testable property
	// 9, "a transient with no file targets causes its dependents to
	// rebuild at most once per process invocation".
	transients map[domain.InternedString]time.Time

	// timestampLast starts at Engine construction time (execution.hh's
	// timestamp_last = Timestamp::now() at program start) and is updated
	// every time a job is reaped; used by warnFutureFile to recognize
	// files whose modification time is newer than anything this run has
	// observed yet.
	timestampLast time.Time

	// startup is fixed once at Engine construction and never updated
	// again, mirroring execution.hh's Timestamp::startup constant; used
	// by verifyBuiltFiles to recognize a command that exited successfully
	// without actually touching its declared output.
	startup time.Time

	ruleSet ports.RuleSet
}

func newCache(ruleSet ports.RuleSet) *cache {
	now := time.Now()
	return &cache{
		byTarget:      make(map[domain.Target]*execution),
		transients:    make(map[domain.InternedString]time.Time),
		timestampLast: now,
		startup:       now,
		ruleSet:       ruleSet,
	}
}

// getExecution returns the execution for target, creating it if necessary,
// links parent to it with link, and rejects the link with
// domain.ErrCycleDetected if it would close a strong cycle. A nil
// execution with a nil error never happens — cycle rejection always
// carries ErrCycleDetected.
func (c *cache) getExecution(eng *Engine, target domain.Target, link domain.Link, parent *execution) (*execution, error) {
	c.mu.Lock()

	child, exists := c.byTarget[target]
	if exists {
		child.mu.Lock()
		if existingLink, linked := child.parents[parent]; linked {
			child.parents[parent] = existingLink.Merge(link)
		} else {
			child.parents[parent] = link
		}
		child.mu.Unlock()
	} else {
		child = newExecution(eng, target, link, parent)
		for _, t := range child.targets {
			c.byTarget[t] = child
		}
	}
	c.mu.Unlock()

	if parent != nil && findCycle(parent, child) {
		name := ""
		if len(child.targets) > 0 {
			name = child.targets[0].String()
		}
		return nil, parent.raise(domain.ErrorLogical, domain.ErrCycleDetected, "target", name)
	}

	child.initialize(link.Avoid)
	return child, nil
}

// findCycle reports whether linking child under parent would close a
// strong cycle, identified by rule identity (the same *domain.Rule
// pointer) irrespective of dynamic-nesting depth — grounded on
// original_source/execution.hh's find_cycle/same_rule.
func findCycle(parent, child *execution) bool {
	if parent.rule == nil || child.rule == nil {
		return false
	}
	return walkForRule(parent, child.rule)
}

func walkForRule(start *execution, rule *domain.Rule) bool {
	if start.rule == rule {
		return true
	}
	start.mu.Lock()
	parents := make([]*execution, 0, len(start.parents))
	for p := range start.parents {
		parents = append(parents, p)
	}
	start.mu.Unlock()
	for _, p := range parents {
		if p.rule == nil {
			continue
		}
		if walkForRule(p, rule) {
			return true
		}
	}
	return false
}

// markTransientBuilt records that target was (re)built at now, per
// testable property 9.
func (c *cache) markTransientBuilt(name domain.InternedString, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transients[name] = now
}

func (c *cache) transientBuilt(name domain.InternedString) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.transients[name]
	return ok
}

func (c *cache) noteTimestamp(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.timestampLast) {
		c.timestampLast = t
	}
}

func (c *cache) lastTimestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timestampLast
}

// startupTimestamp returns the fixed instant the engine was constructed,
// never updated after newCache — the "Stu startup" of execution.hh's
// verify-built-files check.
func (c *cache) startupTimestamp() time.Time {
	return c.startup
}
