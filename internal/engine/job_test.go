package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go.nomake.dev/nomake/internal/core/ports/mocks"
)

func TestJobSlots_AcquireBoundsOutstandingToN(t *testing.T) {
	slots := newJobSlots(2)

	assert.NoError(t, slots.acquire(context.Background()))
	assert.NoError(t, slots.acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, slots.acquire(ctx), "a third acquire must block, and fails fast once ctx is done")

	slots.release()
	assert.NoError(t, slots.acquire(context.Background()))
}

func TestJobSlots_TrackUntrackOutstanding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slots := newJobSlots(4)
	job := mocks.NewMockJob(ctrl)
	job.EXPECT().Pid().Return(123).AnyTimes()

	slots.track(job)
	assert.Equal(t, 1, slots.outstanding())

	slots.untrack(job)
	assert.Equal(t, 0, slots.outstanding())
}

func TestJobSlots_TerminateAllTerminatesEveryTrackedJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	slots := newJobSlots(4)
	jobA := mocks.NewMockJob(ctrl)
	jobA.EXPECT().Pid().Return(1).AnyTimes()
	jobA.EXPECT().TerminateGroup().Return(nil)
	jobB := mocks.NewMockJob(ctrl)
	jobB.EXPECT().Pid().Return(2).AnyTimes()
	jobB.EXPECT().TerminateGroup().Return(nil)

	slots.track(jobA)
	slots.track(jobB)

	slots.TerminateAll()
}

func TestJobSlots_MinimumOneSlot(t *testing.T) {
	slots := newJobSlots(0)
	assert.EqualValues(t, 1, slots.n)
}
