// Package virtual turns shared dependencies into standalone build chunks. Package
// dependencies get a generated re-export shim, local files are emitted as they are.
package virtual

import (
	"context"
	"strconv"
	"strings"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/zerr"
)

// Resolver resolves and loads the virtual chunk ids emitted by the Virtualizer.
type Resolver struct {
	store    *store.Store
	detector DefaultExportDetector
}

// NewResolver creates a resolver backed by s. A nil detector selects InteropDetector.
func NewResolver(s *store.Store, detector DefaultExportDetector) *Resolver {
	if detector == nil {
		detector = InteropDetector{}
	}
	return &Resolver{store: s, detector: detector}
}

// Extension returns the pipeline extension for the resolver.
func (r *Resolver) Extension() pipeline.Extension {
	return pipeline.Extension{
		Name:  pipeline.Name("build:virtual-chunks-loader"),
		Apply: pipeline.ApplyBuild,
		ResolveID: func(ctx context.Context, bctx ports.BuildContext, id, _ string) (*pipeline.Resolution, error) {
			return r.ResolveID(ctx, bctx, id)
		},
		Load: r.Load,
	}
}

// ResolveID claims ids in the virtual chunk namespace and attaches the matching entrypoint.
func (r *Resolver) ResolveID(_ context.Context, bctx ports.BuildContext, id string) (*pipeline.Resolution, error) {
	if bctx.Environment() == domain.EnvironmentSSR {
		return nil, nil
	}
	normalized, ok := domain.NormalizedNameFromVirtualID(id)
	if !ok {
		return nil, nil
	}

	res := &pipeline.Resolution{ID: id, SideEffects: ports.SideEffectsNoTreeshake}
	if ep, found := r.store.FindEntrypoint(normalized); found {
		res.Meta = &ep
	}
	return res, nil
}

// Load generates the re-export shim for a virtual chunk id.
func (r *Resolver) Load(ctx context.Context, bctx ports.BuildContext, id string) (*pipeline.LoadResult, error) {
	if bctx.Environment() == domain.EnvironmentSSR {
		return nil, nil
	}
	normalized, ok := domain.NormalizedNameFromVirtualID(id)
	if !ok {
		return nil, nil
	}

	ep, err := r.entrypoint(ctx, bctx, id, normalized)
	if err != nil {
		return nil, err
	}

	resolved, err := bctx.Resolve(ctx, ep.SourceID, "")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDependencyUnresolved.Error()), "name", ep.OriginalName)
	}
	if resolved == nil {
		return nil, zerr.With(domain.ErrDependencyUnresolved, "name", ep.OriginalName)
	}

	hasDefault, err := r.detector.HasDefaultExport(ctx, bctx, domain.StripQuery(resolved.ID))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrModuleIntrospectionFailed.Error()), "id", resolved.ID)
	}

	return &pipeline.LoadResult{
		Code:        ShimCode(ep.OriginalName, hasDefault),
		SideEffects: ports.SideEffectsNoTreeshake,
	}, nil
}

// entrypoint prefers the metadata attached at resolution and falls back to the store.
func (r *Resolver) entrypoint(
	ctx context.Context,
	bctx ports.BuildContext,
	id, normalized string,
) (domain.ChunkEntrypoint, error) {
	info, err := bctx.ModuleInfo(ctx, id)
	if err != nil {
		return domain.ChunkEntrypoint{}, zerr.With(zerr.Wrap(err, domain.ErrModuleIntrospectionFailed.Error()), "id", id)
	}
	if info != nil && info.Entrypoint != nil {
		return *info.Entrypoint, nil
	}
	if ep, ok := r.store.FindEntrypoint(normalized); ok {
		return ep, nil
	}
	return domain.ChunkEntrypoint{}, zerr.With(domain.ErrDependencyUnresolved, "id", strings.TrimPrefix(id, "\x00"))
}

// ShimCode is the body of the virtual module re-exporting name.
func ShimCode(name string, hasDefaultExport bool) string {
	quoted := strconv.Quote(name)
	code := "export * from " + quoted
	if hasDefaultExport {
		code += "\nexport { default } from " + quoted
	}
	return code
}
