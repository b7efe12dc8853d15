package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/core/domain"
)

func TestLink_NewLinkFromDependency(t *testing.T) {
	dep := domain.NewDirectDependency(domain.Place{}, domain.FlagSet(0).With(domain.FlagOptional), domain.NewFileTarget("a"))
	link := domain.NewLink(dep)

	assert.Equal(t, 0, link.Avoid.Depth())
	assert.True(t, link.Flags.Has(domain.FlagOptional))
	assert.Same(t, dep, link.Dependency)
}

func TestLink_Merge(t *testing.T) {
	dep := domain.NewDirectDependency(domain.Place{}, domain.FlagSet(0).With(domain.FlagOptional), domain.NewFileTarget("a"))
	a := domain.NewLink(dep)
	a.Avoid = a.Avoid.AddLowest(domain.FlagSet(0).With(domain.FlagPersistent))

	b := domain.NewLink(dep)
	b.Flags = domain.FlagSet(0).With(domain.FlagTrivial)
	b.Avoid = b.Avoid.AddLowest(domain.FlagSet(0).With(domain.FlagDynamic))

	merged := a.Merge(b)
	assert.True(t, merged.Flags.Has(domain.FlagOptional))
	assert.True(t, merged.Flags.Has(domain.FlagTrivial))
	assert.True(t, merged.Avoid.GetLowest().Has(domain.FlagPersistent))
	assert.True(t, merged.Avoid.GetLowest().Has(domain.FlagDynamic))
}

func TestLink_WithOverrideTrivial(t *testing.T) {
	dep := domain.NewDirectDependency(domain.Place{}, domain.FlagSet(0).With(domain.FlagTrivial), domain.NewFileTarget("a"))
	link := domain.NewLink(dep)

	overridden := link.WithOverrideTrivial()
	assert.True(t, overridden.Flags.Has(domain.FlagOverrideTrivial))
	assert.True(t, overridden.Avoid.GetHighest().Has(domain.FlagOverrideTrivial))
	assert.False(t, link.Flags.Has(domain.FlagOverrideTrivial), "original link must not be mutated")
}
