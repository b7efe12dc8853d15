package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.nomake.dev/nomake/internal/adapters/cas"
	"go.nomake.dev/nomake/internal/adapters/environment"
	"go.nomake.dev/nomake/internal/adapters/fs"
	"go.nomake.dev/nomake/internal/adapters/logger"
	"go.nomake.dev/nomake/internal/adapters/ruleset"
	"go.nomake.dev/nomake/internal/adapters/shell"
	"go.nomake.dev/nomake/internal/core/ports"
)

// NodeID is the unique identifier for the App graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			ruleset.LoaderNodeID,
			ruleset.StoreNodeID,
			fs.NodeID,
			shell.NodeID,
			environment.NodeID,
			logger.NodeID,
			cas.NodeID,
		},
		Run: runAppNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	ruleSet, err := graft.Dep[ports.RuleSet](ctx)
	if err != nil {
		return nil, err
	}
	filesystem, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}
	spawner, err := graft.Dep[ports.ProcessSpawner](ctx)
	if err != nil {
		return nil, err
	}
	env, err := graft.Dep[ports.EnvironmentFactory](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	dynCache, err := graft.Dep[ports.DynamicCache](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, ruleSet, filesystem, spawner, env, log, dynCache), nil
}
