package environment

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID identifies the ports.EnvironmentFactory node.
const NodeID graft.ID = "adapter.environment"

func init() {
	graft.Register(graft.Node[ports.EnvironmentFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.EnvironmentFactory, error) {
			return New(), nil
		},
	})
}
