package virtual

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
)

// Virtualizer emits one chunk per registered entrypoint and binds the final file names
// back to the logical dependency names once the bundle is generated.
type Virtualizer struct {
	store  *store.Store
	logger ports.Logger
	name   string

	mu      sync.Mutex
	root    string
	handled map[string]domain.ChunkEntrypoint
}

// NewVirtualizer creates a virtualizer backed by s.
func NewVirtualizer(s *store.Store, logger ports.Logger) *Virtualizer {
	name := pipeline.Name("build:virtual")
	return &Virtualizer{
		store:   s,
		logger:  ports.Scoped(logger, name),
		name:    name,
		handled: make(map[string]domain.ChunkEntrypoint),
	}
}

// Extension returns the pipeline extension for the virtualizer.
func (v *Virtualizer) Extension() pipeline.Extension {
	return pipeline.Extension{
		Name:           v.name,
		Apply:          pipeline.ApplyBuild,
		ConfigResolved: v.ConfigResolved,
		BuildStart:     v.BuildStart,
		GenerateBundle: v.GenerateBundle,
	}
}

// ConfigResolved records the project root local entries are resolved against.
func (v *Virtualizer) ConfigResolved(cfg pipeline.ResolvedConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.root = cfg.Root
	if cfg.Logger != nil {
		v.logger = ports.Scoped(cfg.Logger, v.name)
	}
}

// ModuleID is the id a chunk is emitted under: the absolute path for local files and a
// virtual id otherwise.
func ModuleID(ep domain.ChunkEntrypoint, root string) string {
	if ep.LocalFile {
		return filepath.Join(root, filepath.FromSlash(ep.SourceID))
	}
	return domain.VirtualChunkID(ep.NormalizedName)
}

// BuildStart emits a chunk for every registered entrypoint, once per module id.
// A later registration for the same id replaces the attached metadata.
// Server-side builds bundle shared dependencies in place and emit nothing.
func (v *Virtualizer) BuildStart(_ context.Context, bctx ports.BuildContext) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.handled = make(map[string]domain.ChunkEntrypoint)
	if bctx.Environment() == domain.EnvironmentSSR {
		return nil
	}

	root := bctx.Root()
	if root == "" {
		root = v.root
	}

	for _, ep := range v.store.Entrypoints() {
		id := ModuleID(ep, root)
		if _, seen := v.handled[id]; !seen {
			bctx.EmitChunk(ports.ChunkRequest{
				ID:                id,
				Name:              ep.OutputPathHint,
				PreserveSignature: ports.SignatureStrict,
			})
		}
		v.handled[id] = ep
	}
	return nil
}

// GenerateBundle rebuilds the binding registry from the chunks emitted at BuildStart.
func (v *Virtualizer) GenerateBundle(_ context.Context, _ ports.BuildContext, bundle *ports.Bundle) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.store.ClearBindings()

	for _, chunk := range bundle.Chunks {
		facade := chunk.FacadeModuleID
		if facade == "" || !(domain.IsVirtualChunkID(facade) || filepath.IsAbs(facade)) {
			continue
		}
		ep, ok := v.handled[facade]
		if !ok {
			continue
		}

		chunk.IsEntry = false
		binding := domain.Binding{
			Name:      ep.OriginalName,
			URL:       domain.ChunkURL(chunk.FileName),
			Integrity: domain.ComputeIntegrity(ep.Integrity, chunk.Code),
		}
		v.store.UpsertBinding(binding)
		v.logger.Info(fmt.Sprintf("Added %s: %s", binding.Name, binding.URL))
	}
	return nil
}
