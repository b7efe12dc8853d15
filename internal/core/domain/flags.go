package domain

import "strings"

// Flag is a single dependency/edge attribute bit, directly mirroring the
// bit indices of the original Stu flags.hh: the first FlagTransitiveCount
// flags are transitive (carried through transient targets), the rest are
// intransitive (apply only to the edge they sit on).
type Flag uint

const (
	// FlagPersistent ("-p"): a dependency newer than the target does not
	// force a rebuild.
	FlagPersistent Flag = iota
	// FlagOptional ("-o"): the dependency may be absent without error.
	FlagOptional
	// FlagTrivial ("-t"): only considered in the second scheduling pass.
	FlagTrivial
	// FlagDynamic marks a [...[X]...] -> X expansion link.
	FlagDynamic
	// FlagVariable ("$[...]"): file content is read into an env var.
	FlagVariable
	// FlagOverrideTrivial cancels FlagTrivial's skip semantics for the
	// second pass. Only ever set on a Link, never on a Dependency.
	FlagOverrideTrivial
	// FlagNewlineSeparated: a dynamic-dependency file is a flat,
	// newline-separated list of names rather than dependency expressions.
	FlagNewlineSeparated
	// FlagNulSeparated is FlagNewlineSeparated's NUL-separated sibling.
	FlagNulSeparated
	// FlagRead marks a [...[X]...] -> X edge along which the child's
	// content should be parsed as a dynamic dependency list once built.
	FlagRead
	// FlagExistence marks an edge whose only purpose is to check that the
	// child exists; it hides the child's timestamp from the parent.
	FlagExistence

	// flagCount is the total number of defined flags.
	flagCount
)

// FlagTransitiveCount is the number of leading flags that are transitive
// across transient targets, per spec.md §4.1.
const FlagTransitiveCount = 3

var flagChars = [...]byte{'p', 'o', 't', 'd', '$', '*', 'n', '0', 'r', 'e'}

// FlagSet is a bit set over Flag, as wide as flagCount.
type FlagSet uint32

// allFlags is the set containing every defined flag bit.
const allFlags FlagSet = (1 << flagCount) - 1

// Has reports whether f is set in the set.
func (s FlagSet) Has(f Flag) bool {
	return s&(1<<f) != 0
}

// With returns a copy of s with f set.
func (s FlagSet) With(f Flag) FlagSet {
	return s | (1 << f)
}

// Without returns a copy of s with f cleared.
func (s FlagSet) Without(f Flag) FlagSet {
	return s &^ (1 << f)
}

// Union ORs two flag sets together.
func (s FlagSet) Union(other FlagSet) FlagSet {
	return s | other
}

// Transitive returns only the transitive bits of s (persistent, optional,
// trivial) — the part of a dependency's own flags that survives being
// re-attached across a transient target, per spec.md §4.1.
func (s FlagSet) Transitive() FlagSet {
	return s & ((1 << FlagTransitiveCount) - 1)
}

// Complement returns every defined flag bit not set in s.
func (s FlagSet) Complement() FlagSet {
	return ^s & allFlags
}

// Covers reports whether s, together with avoid, sets every defined flag
// bit — the per-level test finished() performs (spec.md §4.6).
func (s FlagSet) Covers(avoid FlagSet) bool {
	return s.Union(avoid)&allFlags == allFlags
}

// Format renders s using the same single-letter convention as Stu's
// FLAGS_CHARS, for verbose/trace output.
func (s FlagSet) Format() string {
	var b strings.Builder
	for i := Flag(0); i < flagCount; i++ {
		if s.Has(i) {
			b.WriteByte('-')
			b.WriteByte(flagChars[i])
			b.WriteByte(' ')
		}
	}
	return b.String()
}
