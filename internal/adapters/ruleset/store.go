package ruleset

import (
	"fmt"
	"sync"

	"go.trai.ch/zerr"

	"go.nomake.dev/nomake/internal/core/domain"
)

// Store implements ports.RuleSet: a lookup table from a target's base
// identity to the rule that builds it, built once at load time and read
// many times as the engine lazily constructs execution nodes. Add also
// feeds every rule into a domain.Graph for a pre-flight literal-cycle
// scan, ahead of the engine's own runtime cycle detection.
type Store struct {
	mu    sync.RWMutex
	byTgt map[domain.Target]*domain.Rule
	all   []*domain.Rule
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byTgt: make(map[domain.Target]*domain.Rule)}
}

// Add registers rules, returning domain.ErrDuplicateRule if two of them
// claim the same target, or domain.ErrCycleDetected if their literal
// dependency edges form a cycle.
func (s *Store) Add(rules []*domain.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range rules {
		for _, target := range rule.Targets {
			base := target.Base()
			if existing, ok := s.byTgt[base]; ok && existing != rule {
				// zerr.With's copy no longer unwraps to the sentinel; the
				// zero-width second %w keeps errors.Is matching it.
				return fmt.Errorf("%w%.0w", zerr.With(domain.ErrDuplicateRule, "target", base.String()), domain.ErrDuplicateRule)
			}
		}
	}

	graph := domain.NewGraph()
	for _, rule := range s.all {
		graph.AddRule(rule)
	}
	for _, rule := range rules {
		graph.AddRule(rule)
	}
	if err := graph.Validate(); err != nil {
		return fmt.Errorf("%w%.0w", err, domain.ErrCycleDetected)
	}

	for _, rule := range rules {
		for _, target := range rule.Targets {
			s.byTgt[target.Base()] = rule
		}
		s.all = append(s.all, rule)
	}
	return nil
}

// Get returns the rule registered for target's base identity, or a nil
// rule and nil error when no rule claims it.
func (s *Store) Get(target domain.Target) (*domain.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byTgt[target.Base()], nil
}

// All returns every registered rule, in declaration order.
func (s *Store) All() []*domain.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Rule, len(s.all))
	copy(out, s.all)
	return out
}
