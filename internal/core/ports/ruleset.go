package ports

import "go.nomake.dev/nomake/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=ruleset.go -destination=mocks/mock_ruleset.go -package=mocks

// RuleSet holds the loaded, instantiated rule base and resolves a target to
// the rule that builds it, per spec.md §6 "Rule Set interface".
type RuleSet interface {
	// Get returns the rule that builds target; only the rule is returned,
	// not the set of candidates it was chosen from. A nil rule with a nil error means "no rule, not an error yet" —
	// the engine decides whether that is fatal based on whether the
	// target already exists on disk.
	Get(target domain.Target) (*domain.Rule, error)
	// Add registers rules, returning domain.ErrDuplicateRule if two
	// unparametrized rules claim the same target.
	Add(rules []*domain.Rule) error
	// All returns every registered rule, in declaration order — used by
	// the pre-flight cycle check and by the rules-printing command.
	All() []*domain.Rule
}
