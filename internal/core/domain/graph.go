// Package domain contains the core domain models and business logic for the
// dependency build engine.
package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is a pre-flight static check over a rule set's literal (non-dynamic,
// non-pattern) dependency edges. It exists to give a fast, whole-program
// "obvious cycle" diagnostic before the engine starts lazily constructing
// Execution nodes — the engine's own strong-cycle detection (param-rule
// identity, scoped to the nodes actually visited) is the authority at
// runtime; this is a cheaper, coarser check run once at load time.
type Graph struct {
	edges map[Target][]Target
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[Target][]Target)}
}

// AddRule records r's literal dependency edges: every Direct dependency on
// a file or transient target. Dynamic and Concatenation dependencies are
// skipped — a Dynamic dependency's membership is data-dependent (only
// known once its file is built and read), so it cannot participate in a
// static check, per spec.md §9 "Dynamic nesting is bounded by user input —
// treat as data, not as type depth."
func (g *Graph) AddRule(r *Rule) {
	for _, target := range r.Targets {
		base := target.Base()
		for _, dep := range r.Dependencies {
			if direct, ok := dep.(*DirectDependency); ok {
				g.edges[base] = append(g.edges[base], direct.Target.Base())
			}
		}
	}
}

// Validate walks every recorded node with a white/gray/black DFS and
// returns ErrCycleDetected, carrying the full cycle path, on the first
// cycle found. A nil return means the literal dependency graph is acyclic.
func (g *Graph) Validate() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Target]int, len(g.edges))
	var path []Target

	var visit func(u Target) error
	visit = func(u Target) error {
		color[u] = gray
		path = append(path, u)

		for _, v := range g.edges[u] {
			switch color[v] {
			case gray:
				return g.cycleError(path, v)
			case white:
				if err := visit(v); err != nil {
					return err
				}
			}
		}

		color[u] = black
		path = path[:len(path)-1]
		return nil
	}

	for u := range g.edges {
		if color[u] == white {
			if err := visit(u); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) cycleError(path []Target, closing Target) error {
	start := 0
	for i, node := range path {
		if node == closing {
			start = i
			break
		}
	}
	var b strings.Builder
	for i := start; i < len(path); i++ {
		fmt.Fprintf(&b, "%s -> ", path[i].String())
	}
	b.WriteString(closing.String())
	return zerr.With(ErrCycleDetected, "cycle", b.String())
}
