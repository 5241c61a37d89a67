package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/importmaps/internal/adapters/fs"
	"go.trai.ch/importmaps/internal/core/ports"
)

// BuilderNodeID is the unique identifier for the esbuild builder Graft node.
const BuilderNodeID graft.ID = "adapter.esbuild.builder"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Builder, error) {
			inputs, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(inputs), nil
		},
	})
}
