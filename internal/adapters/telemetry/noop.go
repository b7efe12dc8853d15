// Package telemetry provides the no-op ports.Telemetry implementation,
// used when no progress UI is attached (e.g. non-interactive CI runs).
package telemetry

import (
	"context"
	"io"

	"go.nomake.dev/nomake/internal/core/domain"
	"go.nomake.dev/nomake/internal/core/ports"
)

// NoOp implements ports.Telemetry by discarding everything.
type NoOp struct{}

// New returns a NoOp telemetry recorder.
func New() *NoOp { return &NoOp{} }

// Record returns ctx unchanged and a vertex that discards everything
// written or reported to it.
func (*NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, noOpVertex{}
}

// Close does nothing.
func (*NoOp) Close() error { return nil }

type noOpVertex struct{}

func (noOpVertex) Stdout() io.Writer                 { return io.Discard }
func (noOpVertex) Stderr() io.Writer                 { return io.Discard }
func (noOpVertex) Log(_ domain.LogLevel, _ string)   {}
func (noOpVertex) Complete(_ error)                  {}
func (noOpVertex) Cached()                           {}
