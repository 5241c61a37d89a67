package esbuild

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// bridge routes esbuild's resolve and load callbacks through the pipeline.
type bridge struct {
	ctx      context.Context
	pipeline *pipeline.Pipeline
	session  *session
	// entries maps synthetic entry point paths to the module ids they stand for.
	entries map[string]string
}

func (b *bridge) plugin() api.Plugin {
	return api.Plugin{
		Name: Namespace,
		Setup: func(build api.PluginBuild) {
			b.session.setBuild(&build)
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				return b.resolve(build, args)
			})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: Namespace}, b.load)
		},
	}
}

func (b *bridge) resolve(build api.PluginBuild, args api.OnResolveArgs) (api.OnResolveResult, error) {
	if _, ok := args.PluginData.(probeMarker); ok {
		return api.OnResolveResult{}, nil
	}

	id := args.Path
	rewritten := false
	if args.Kind == api.ResolveEntryPoint {
		if mapped, ok := b.entries[id]; ok {
			id, rewritten = mapped, true
		}
	}
	if aliased, ok := domain.ApplyAlias(b.session.alias, id); ok {
		id, rewritten = aliased, true
	}

	res, err := b.pipeline.ResolveID(b.ctx, b.session, id, importerID(args))
	if err != nil {
		b.session.fail(err)
		return api.OnResolveResult{}, err
	}
	if res != nil {
		if res.Meta != nil {
			b.session.setMeta(res.ID, res.Meta)
		}
		return toResult(res), nil
	}
	if !rewritten {
		return api.OnResolveResult{}, nil
	}
	if filepath.IsAbs(id) && args.Kind == api.ResolveEntryPoint {
		return api.OnResolveResult{Path: id}, nil
	}

	kind := args.Kind
	if kind == api.ResolveEntryPoint {
		kind = api.ResolveJSImportStatement
	}
	resolveDir := args.ResolveDir
	if resolveDir == "" {
		resolveDir = b.session.root
	}
	result := build.Resolve(id, api.ResolveOptions{
		Kind:       kind,
		ResolveDir: resolveDir,
		Importer:   args.Importer,
		PluginData: probeMarker{},
	})
	if len(result.Errors) > 0 {
		return api.OnResolveResult{Errors: result.Errors}, nil
	}
	out := api.OnResolveResult{
		Path:      result.Path,
		External:  result.External,
		Namespace: result.Namespace,
		Suffix:    result.Suffix,
	}
	if !result.SideEffects && !result.External {
		out.SideEffects = api.SideEffectsFalse
	}
	return out, nil
}

func (b *bridge) load(args api.OnLoadArgs) (api.OnLoadResult, error) {
	id := "\x00" + args.Path
	res, err := b.pipeline.Load(b.ctx, b.session, id)
	if err != nil {
		b.session.fail(err)
		return api.OnLoadResult{}, err
	}
	if res == nil {
		err := zerr.With(zerr.New("no extension loaded virtual module"), "id", strings.TrimPrefix(id, "\x00"))
		b.session.fail(err)
		return api.OnLoadResult{}, err
	}
	// esbuild takes side effects from the resolve result, see toResult.
	return api.OnLoadResult{
		Contents:   &res.Code,
		ResolveDir: b.session.root,
		Loader:     api.LoaderJS,
	}, nil
}

// toResult maps a resolution to esbuild's path and namespace pair.
func toResult(res *pipeline.Resolution) api.OnResolveResult {
	var out api.OnResolveResult
	if rest, ok := strings.CutPrefix(res.ID, "\x00"); ok {
		out = api.OnResolveResult{Path: rest, Namespace: Namespace}
	} else {
		out = api.OnResolveResult{Path: res.ID, External: res.External}
	}
	if res.SideEffects == ports.SideEffectsNoTreeshake {
		out.SideEffects = api.SideEffectsTrue
	}
	return out
}

func importerID(args api.OnResolveArgs) string {
	if args.Namespace == Namespace {
		return "\x00" + args.Importer
	}
	return args.Importer
}

func dirOf(file string) string {
	return filepath.Dir(domain.StripQuery(file))
}
