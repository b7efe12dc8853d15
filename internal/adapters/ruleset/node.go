package ruleset

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/core/ports"
)

// LoaderNodeID identifies the ports.ConfigLoader node.
const LoaderNodeID graft.ID = "adapter.ruleset.loader"

// StoreNodeID identifies the ports.RuleSet node.
const StoreNodeID graft.ID = "adapter.ruleset.store"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			return NewFileLoader(), nil
		},
	})

	graft.Register(graft.Node[ports.RuleSet]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.RuleSet, error) {
			return NewStore(), nil
		},
	})
}
