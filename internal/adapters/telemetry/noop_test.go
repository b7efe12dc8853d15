package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/adapters/telemetry"
	"go.nomake.dev/nomake/internal/core/domain"
)

func TestNoOp_RecordReturnsUsableVertex(t *testing.T) {
	tel := telemetry.New()
	ctx, vertex := tel.Record(context.Background(), "target")

	assert.NotNil(t, ctx)

	n, err := vertex.Stdout().Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	vertex.Log(domain.LogLevelInfo, "message")
	vertex.Cached()
	vertex.Complete(nil)
}

func TestNoOp_Close(t *testing.T) {
	tel := telemetry.New()
	assert.NoError(t, tel.Close())
}
