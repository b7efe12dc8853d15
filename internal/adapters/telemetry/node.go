package telemetry

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID identifies the no-op ports.Telemetry node, selected by the
// wiring root when no interactive progress UI is attached.
const NodeID graft.ID = "adapter.telemetry.noop"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return New(), nil
		},
	})
}
