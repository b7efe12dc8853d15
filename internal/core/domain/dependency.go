package domain

// Dependency is the tagged recursive value spec.md §3 describes: a Direct
// dependency on a file or transient target, a Dynamic wrapper adding one
// nesting level around an inner dependency, or a Concatenation of several
// dependencies evaluated as one.
//
// Grounded on original_source/rule.hh's Direct_Dependency/Dynamic_Dependency/
// Concatenated_Dependency: a tagged sum expressed as a Go interface plus
// three small structs, rather than a C++ class hierarchy.
type Dependency interface {
	// Place is the dependency's own source location.
	Place() Place
	// Flags is the dependency's own flag bits (before any Link.Avoid
	// masking is applied).
	Flags() FlagSet
	// WithFlags returns a copy of the dependency with extra bits ORed
	// into its own flags.
	WithFlags(bits FlagSet) Dependency
	// Depth returns the number of Dynamic wrappers around the innermost
	// Direct dependency.
	Depth() int
}

// DirectDependency is a dependency on a single Target, optionally bound to
// a variable name (for "$[name]" dependencies, spec.md's Variable flag).
type DirectDependency struct {
	place    Place
	flags    FlagSet
	Target   Target
	Variable string // "" unless this is a $[...] variable dependency
}

// NewDirectDependency builds a DirectDependency at the given place.
func NewDirectDependency(place Place, flags FlagSet, target Target) *DirectDependency {
	return &DirectDependency{place: place, flags: flags, Target: target}
}

func (d *DirectDependency) Place() Place   { return d.place }
func (d *DirectDependency) Flags() FlagSet { return d.flags }
func (d *DirectDependency) Depth() int     { return 0 }

func (d *DirectDependency) WithFlags(bits FlagSet) Dependency {
	next := *d
	next.flags = next.flags.Union(bits)
	return &next
}

// DynamicDependency adds one dynamic-nesting level around Inner. Its
// invariant (spec.md §3) is that its innermost base is always a
// DirectDependency — enforced by construction helpers, not by the type
// system, since Go interfaces can't express that without a second type
// parameter the rest of the engine would have to thread through.
type DynamicDependency struct {
	place Place
	flags FlagSet
	Inner Dependency
}

// NewDynamicDependency wraps inner one level deeper.
func NewDynamicDependency(place Place, flags FlagSet, inner Dependency) *DynamicDependency {
	return &DynamicDependency{place: place, flags: flags, Inner: inner}
}

func (d *DynamicDependency) Place() Place   { return d.place }
func (d *DynamicDependency) Flags() FlagSet { return d.flags }
func (d *DynamicDependency) Depth() int     { return d.Inner.Depth() + 1 }

func (d *DynamicDependency) WithFlags(bits FlagSet) Dependency {
	next := *d
	next.flags = next.flags.Union(bits)
	return &next
}

// Base returns the DirectDependency at the bottom of the wrapper chain.
func (d *DynamicDependency) Base() *DirectDependency {
	inner := d.Inner
	for {
		if dyn, ok := inner.(*DynamicDependency); ok {
			inner = dyn.Inner
			continue
		}
		direct, _ := inner.(*DirectDependency)
		return direct
	}
}

// ConcatenatedDependency evaluates its Members as if they were a single
// dependency whose resolved target list is the union, in order, of its
// members' resolved targets. Per SPEC_FULL.md, it is used only by rule-set
// construction (e.g. a rule depending on "a b c" written as one token
// group), never produced by read_dynamics' file grammar.
type ConcatenatedDependency struct {
	place   Place
	flags   FlagSet
	Members []Dependency
}

// NewConcatenatedDependency builds a Concatenation of members.
func NewConcatenatedDependency(place Place, flags FlagSet, members []Dependency) *ConcatenatedDependency {
	return &ConcatenatedDependency{place: place, flags: flags, Members: members}
}

func (d *ConcatenatedDependency) Place() Place   { return d.place }
func (d *ConcatenatedDependency) Flags() FlagSet { return d.flags }

func (d *ConcatenatedDependency) Depth() int {
	maxDepth := 0
	for _, m := range d.Members {
		if m.Depth() > maxDepth {
			maxDepth = m.Depth()
		}
	}
	return maxDepth
}

func (d *ConcatenatedDependency) WithFlags(bits FlagSet) Dependency {
	next := *d
	next.flags = next.flags.Union(bits)
	return &next
}
