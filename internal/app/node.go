package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/importmaps/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/adapters/esbuild"   //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/importmaps/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			esbuild.BuilderNodeID,
			fs.WriterNodeID,
			watcher.WatcherNodeID,
			telemetry.ProviderNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			builder, err := graft.Dep[*esbuild.Builder](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.OutputWriter](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[*telemetry.Provider](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, log, builder, writer, w, provider), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}
