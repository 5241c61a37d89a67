package devserver

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/zerr"
)

// VirtualPrefix is the URL prefix virtual modules are served under.
const VirtualPrefix = "/@id/"

// DefaultCacheSize is the number of compiled modules kept in memory.
const DefaultCacheSize = 256

type devMarker struct{}

// compiled is a cached module together with the modification times of its inputs.
type compiled struct {
	code   []byte
	inputs map[string]time.Time
}

// fresh reports whether no input changed since compilation.
func (c *compiled) fresh() bool {
	for path, mtime := range c.inputs {
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Equal(mtime) {
			return false
		}
	}
	return true
}

// Compiler bundles a script and its non-shared imports into one ES module. Shared
// dependencies stay bare so the browser resolves them through the import map.
type Compiler struct {
	root   string
	alias  map[string]string
	shared map[string]bool
	cache  *lru.Cache[string, *compiled]
}

// NewCompiler creates a compiler for the project at root.
func NewCompiler(root string, alias map[string]string, shared []string, size int) (*Compiler, error) {
	cache, err := lru.New[string, *compiled](size)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	set := make(map[string]bool, len(shared))
	for _, name := range shared {
		set[name] = true
	}
	return &Compiler{root: root, alias: alias, shared: set, cache: cache}, nil
}

// Compile returns the bundled module for file, reusing the cached result while its inputs
// are unchanged.
func (c *Compiler) Compile(file string) ([]byte, error) {
	if entry, ok := c.cache.Get(file); ok && entry.fresh() {
		return entry.code, nil
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{file},
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Format:        api.FormatESModule,
		Platform:      api.PlatformBrowser,
		Sourcemap:     api.SourceMapInline,
		Outdir:        filepath.Join(c.root, ".importmaps-dev"),
		AbsWorkingDir: c.root,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{c.plugin()},
	})
	if len(result.Errors) > 0 {
		err := zerr.With(zerr.New(result.Errors[0].Text), "path", file)
		return nil, zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}

	var code []byte
	for _, out := range result.OutputFiles {
		if strings.HasSuffix(out.Path, ".js") {
			code = out.Contents
		}
	}

	c.cache.Add(file, &compiled{code: code, inputs: c.inputTimes(result.Metafile)})
	return code, nil
}

// Len returns the number of cached modules.
func (c *Compiler) Len() int {
	return c.cache.Len()
}

func (c *Compiler) inputTimes(metafile string) map[string]time.Time {
	inputs := make(map[string]time.Time)
	for _, key := range metafileInputs(metafile) {
		path := key
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.root, filepath.FromSlash(key))
		}
		if info, err := os.Stat(path); err == nil {
			inputs[path] = info.ModTime()
		}
	}
	return inputs
}

func (c *Compiler) plugin() api.Plugin {
	return api.Plugin{
		Name: "importmaps:dev",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if _, ok := args.PluginData.(devMarker); ok || args.Kind == api.ResolveEntryPoint {
					return api.OnResolveResult{}, nil
				}
				if args.Path == domain.VirtualImportMapID {
					return api.OnResolveResult{Path: VirtualPrefix + domain.VirtualImportMapID, External: true}, nil
				}

				id, aliased := domain.ApplyAlias(c.alias, args.Path)
				if c.shared[id] || c.shared[args.Path] {
					return api.OnResolveResult{Path: args.Path, External: true}, nil
				}
				if !aliased {
					return api.OnResolveResult{}, nil
				}

				result := build.Resolve(id, api.ResolveOptions{
					Kind:       args.Kind,
					ResolveDir: args.ResolveDir,
					Importer:   args.Importer,
					PluginData: devMarker{},
				})
				if len(result.Errors) > 0 {
					return api.OnResolveResult{Errors: result.Errors}, nil
				}
				return api.OnResolveResult{Path: result.Path, External: result.External, Suffix: result.Suffix}, nil
			})
		},
	}
}
