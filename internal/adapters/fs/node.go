package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID identifies the ports.FileSystem node.
const NodeID graft.ID = "adapter.fs"

func init() {
	graft.Register(graft.Node[ports.FileSystem]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.FileSystem, error) {
			return New(), nil
		},
	})
}
