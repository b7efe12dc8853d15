package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/core/domain"
)

func TestStack_NewStackDepth(t *testing.T) {
	s := domain.NewStack(2)
	assert.Equal(t, 2, s.Depth())
}

func TestStack_PushPop(t *testing.T) {
	s := domain.NewStack(0)
	assert.Equal(t, 0, s.Depth())

	pushed := s.Push(domain.FlagSet(0).With(domain.FlagDynamic))
	assert.Equal(t, 1, pushed.Depth())
	assert.True(t, pushed.GetHighest().Has(domain.FlagDynamic))
	assert.Equal(t, 0, pushed.Pop().Depth())
}

func TestStack_PopAtFloorStaysAtFloor(t *testing.T) {
	s := domain.NewStack(0)
	assert.Equal(t, 0, s.Pop().Depth())
}

func TestStack_GetLowestAndHighest(t *testing.T) {
	s := domain.NewStack(1).AddLowest(domain.FlagSet(0).With(domain.FlagPersistent)).AddHighest(domain.FlagSet(0).With(domain.FlagOptional))
	assert.True(t, s.GetLowest().Has(domain.FlagPersistent))
	assert.True(t, s.GetHighest().Has(domain.FlagOptional))
	assert.False(t, s.GetLowest().Has(domain.FlagOptional))
}

func TestStack_OutOfRangeGetReturnsZero(t *testing.T) {
	s := domain.NewStack(0)
	assert.Equal(t, domain.FlagSet(0), s.Get(5))
	assert.Equal(t, domain.FlagSet(0), s.Get(-1))
}

func TestStack_MarkDoneAndFinished(t *testing.T) {
	avoided := domain.NewStack(0).AddLowest(domain.FlagSet(0).With(domain.FlagPersistent))
	done := domain.NewStack(0)

	done = done.MarkDone(avoided)
	// Every bit avoided didn't claim is now marked done at level 0.
	assert.True(t, done.GetLowest().Has(domain.FlagOptional))
	assert.False(t, done.GetLowest().Has(domain.FlagPersistent))

	assert.True(t, avoided.Finished(done))
}

func TestStack_FinishedRequiresMatchingDepth(t *testing.T) {
	shallow := domain.NewStack(0)
	deep := domain.NewStack(1)
	assert.False(t, shallow.Finished(deep))
}

func TestStack_Format(t *testing.T) {
	s := domain.NewStack(1).AddLowest(domain.FlagSet(0).With(domain.FlagPersistent)).AddHighest(domain.FlagSet(0).With(domain.FlagOptional))
	formatted := s.Format()
	assert.Contains(t, formatted, "-o")
	assert.Contains(t, formatted, "-p")
}
