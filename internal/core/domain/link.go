package domain

// Link is the per-edge record carried from a parent Execution to a child,
// per spec.md §3. It is value-copied onto Execution.Parents and into the
// dependency buffers, which is exactly how the original lets the same
// dependency be re-queued with different Avoid/Flags for pass 1 vs pass 2
// (spec.md §4.4 step 1, the override-trivial re-entry).
type Link struct {
	// Avoid masks out attributes the parent side has already handled;
	// see Stack.Finished.
	Avoid Stack
	// Flags are this edge's own bits, independent of Avoid.
	Flags FlagSet
	// Place is the edge's source location, for diagnostics.
	Place Place
	// Dependency is the original dependency expression this edge came
	// from (needed by read_dynamics and variable-dependency handling).
	Dependency Dependency
}

// NewLink builds a Link for dep whose Avoid stack is as deep as dep's
// dynamic nesting (dep.Depth()).
// Avoid's lowest level starts equal to dep's own flags (execution.hh's
// invariant avoid.get_lowest() == flags & ((1<<F_COUNT)-1)): a dependency's
// own attributes are already accounted for and need not be separately
// marked done by the child they point to.
func NewLink(dep Dependency) Link {
	return Link{
		Avoid:      NewStack(dep.Depth()).AddLowest(dep.Flags()),
		Flags:      dep.Flags(),
		Place:      dep.Place(),
		Dependency: dep,
	}
}

// Merge ORs other's Avoid and Flags into l, used by the execution cache
// when a second edge to an already-cached target is discovered
// (spec.md §4.2 step 1).
func (l Link) Merge(other Link) Link {
	return Link{
		Avoid:      l.mergeAvoid(other.Avoid),
		Flags:      l.Flags.Union(other.Flags),
		Place:      l.Place,
		Dependency: l.Dependency,
	}
}

func (l Link) mergeAvoid(other Stack) Stack {
	depth := l.Avoid.Depth()
	merged := NewStack(depth)
	for k := 0; k <= depth; k++ {
		merged = merged.addAt(k, l.Avoid.Get(k).Union(other.Get(k)))
	}
	return merged
}

// WithOverrideTrivial returns a copy of l with FlagOverrideTrivial set on
// both Flags and the top of Avoid — how pass 2 re-enters a trivial
// subtree pass 1 skipped (spec.md §4.4 step 6).
func (l Link) WithOverrideTrivial() Link {
	next := l
	next.Flags = next.Flags.With(FlagOverrideTrivial)
	next.Avoid = next.Avoid.AddHighest(FlagSet(0).With(FlagOverrideTrivial))
	return next
}
