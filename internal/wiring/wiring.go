// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/importmaps/internal/adapters/config"
	_ "go.trai.ch/importmaps/internal/adapters/esbuild"
	_ "go.trai.ch/importmaps/internal/adapters/fs"
	_ "go.trai.ch/importmaps/internal/adapters/logger"
	_ "go.trai.ch/importmaps/internal/adapters/telemetry"
	_ "go.trai.ch/importmaps/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/importmaps/internal/app"
)
