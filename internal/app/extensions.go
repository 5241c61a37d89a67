package app

import (
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/dev"
	"go.trai.ch/importmaps/internal/engine/importmap"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/importmaps/internal/engine/virtual"
)

// NewExtensions registers every shared dependency for the build and returns the extensions
// in dispatch order: chunk resolution, chunk emission, dev resolution, HTML injection,
// the virtual module and, when configured, the import map file.
func NewExtensions(s *store.Store, opts domain.Options, logger ports.Logger) []pipeline.Extension {
	s.RegisterAll()

	extensions := []pipeline.Extension{
		virtual.NewResolver(s, virtual.InteropDetector{}).Extension(),
		virtual.NewVirtualizer(s, logger).Extension(),
		dev.NewResolver(s, logger).Extension(),
	}
	if opts.InjectImportMapsToHTML {
		extensions = append(extensions, importmap.InjectExtension(s))
	}
	extensions = append(extensions, importmap.ModuleExtension(s))
	if name := opts.ImportMapFileName(); name != "" {
		extensions = append(extensions, importmap.NewFileSink(s, name, logger).Extension())
	}
	return extensions
}
