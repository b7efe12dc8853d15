package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.nomake.dev/nomake/internal/adapters/logger"
	"go.nomake.dev/nomake/internal/core/ports"
)

const NodeID graft.ID = "adapter.spawner"

func init() {
	graft.Register(graft.Node[ports.ProcessSpawner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProcessSpawner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})
}
