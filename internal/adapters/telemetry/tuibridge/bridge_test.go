package tuibridge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/adapters/telemetry/tuibridge"
	"go.nomake.dev/nomake/internal/core/domain"
)

func TestBridge_NilProgramIsSafe(t *testing.T) {
	b := tuibridge.New(nil)

	b.InitTasks([]string{"a", "b"})

	ctx, vertex := b.Record(context.Background(), "target")
	assert.NotNil(t, ctx)

	_, err := vertex.Stdout().Write([]byte("line"))
	assert.NoError(t, err)

	vertex.Log(domain.LogLevelInfo, "msg")
	vertex.Cached()
	vertex.Complete(errors.New("boom"))

	assert.NoError(t, b.Close())
}

func TestBridge_RecordAssignsDistinctSpanIDs(t *testing.T) {
	b := tuibridge.New(nil)

	_, v1 := b.Record(context.Background(), "one")
	_, v2 := b.Record(context.Background(), "two")

	assert.NotEqual(t, v1, v2)
}
