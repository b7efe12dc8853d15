package cas

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID identifies the ports.DynamicCache node.
const NodeID graft.ID = "adapter.cas"

func init() {
	graft.Register(graft.Node[ports.DynamicCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.DynamicCache, error) {
			return NewStore(), nil
		},
	})
}
