package tuibridge

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID identifies the Bubble Tea telemetry bridge node, selected by the
// wiring root when an interactive progress UI is attached. The node itself
// builds New(nil), a bridge with no *tea.Program that discards every event;
// the bridge that drives the progress UI is built by the app layer directly
// via New with its own program, not through graft.Dep.
const NodeID graft.ID = "adapter.telemetry.tuibridge"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: false,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return New(nil), nil
		},
	})
}
