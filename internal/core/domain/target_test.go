package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/core/domain"
)

func TestTarget_FileAndTransientConstructors(t *testing.T) {
	file := domain.NewFileTarget("out.txt")
	assert.True(t, file.IsFile())
	assert.False(t, file.IsTransient())
	assert.False(t, file.IsDynamic())

	transient := domain.NewTransientTarget("clean")
	assert.True(t, transient.IsTransient())
	assert.False(t, transient.IsFile())
}

func TestTarget_DynamicAndBase(t *testing.T) {
	base := domain.NewFileTarget("deps.txt")
	dyn := base.Dynamic()

	assert.True(t, dyn.IsDynamic())
	assert.Equal(t, 1, dyn.DynamicDepth)
	assert.Equal(t, base, dyn.Base())

	deeper := dyn.Dynamic()
	assert.Equal(t, 2, deeper.DynamicDepth)
	assert.Equal(t, base, deeper.Base())
}

func TestTarget_Equality(t *testing.T) {
	a := domain.NewFileTarget("x")
	b := domain.NewFileTarget("x")
	c := domain.NewFileTarget("y")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "out.txt", domain.NewFileTarget("out.txt").String())
	assert.Equal(t, "@clean", domain.NewTransientTarget("clean").String())
	assert.Equal(t, "[out.txt]", domain.NewFileTarget("out.txt").Dynamic().String())
	assert.Equal(t, "[[out.txt]]", domain.NewFileTarget("out.txt").Dynamic().Dynamic().String())
}
