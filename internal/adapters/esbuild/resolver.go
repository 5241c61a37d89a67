// Package esbuild hosts the import map pipeline on top of the esbuild bundler.
package esbuild

import (
	"context"
	"strconv"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
)

// Namespace is the esbuild namespace of modules whose id starts with a NUL byte.
const Namespace = "importmaps"

// probeMarker tags resolutions issued by the adapter so its own plugins let them through.
type probeMarker struct{}

// Resolver resolves bare specifiers the way a build would, without bundling anything.
type Resolver struct {
	root  string
	alias map[string]string
}

// NewResolver creates a resolver for the project at root.
func NewResolver(root string, alias map[string]string) *Resolver {
	return &Resolver{root: root, alias: alias}
}

// Resolve resolves specifier from the project root. It returns nil, nil when
// the specifier cannot be resolved.
func (r *Resolver) Resolve(ctx context.Context, specifier string) (*ports.ResolvedID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	specifier, _ = domain.ApplyAlias(r.alias, specifier)
	return probe(r.root, specifier), nil
}

// probe runs a throwaway build importing specifier and records what esbuild resolved it to.
func probe(root, specifier string) *ports.ResolvedID {
	var resolved *ports.ResolvedID

	api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   "import " + strconv.Quote(specifier) + ";",
			ResolveDir: root,
			Loader:     api.LoaderJS,
		},
		Bundle:        true,
		Write:         false,
		AbsWorkingDir: root,
		LogLevel:      api.LogLevelSilent,
		Plugins: []api.Plugin{{
			Name: Namespace + ":probe",
			Setup: func(build api.PluginBuild) {
				build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, ok := args.PluginData.(probeMarker); ok || args.Kind == api.ResolveEntryPoint {
						return api.OnResolveResult{}, nil
					}
					result := build.Resolve(args.Path, api.ResolveOptions{
						Kind:       args.Kind,
						ResolveDir: args.ResolveDir,
						Importer:   args.Importer,
						PluginData: probeMarker{},
					})
					if len(result.Errors) == 0 && result.Path != "" {
						resolved = &ports.ResolvedID{ID: result.Path + result.Suffix, External: result.External}
					}
					return api.OnResolveResult{Path: args.Path, External: true}, nil
				})
			},
		}},
	})

	return resolved
}

// externalizer marks every import as external so only the entry module is analyzed.
func externalizer() api.Plugin {
	return api.Plugin{
		Name: Namespace + ":externalize",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if _, ok := args.PluginData.(probeMarker); ok || args.Kind == api.ResolveEntryPoint {
					return api.OnResolveResult{}, nil
				}
				result := build.Resolve(args.Path, api.ResolveOptions{
					Kind:       args.Kind,
					ResolveDir: args.ResolveDir,
					Importer:   args.Importer,
					PluginData: probeMarker{},
				})
				if len(result.Errors) > 0 || result.Path == "" {
					return api.OnResolveResult{Path: args.Path, External: true}, nil
				}
				return api.OnResolveResult{Path: result.Path, External: true}, nil
			})
		},
	}
}
