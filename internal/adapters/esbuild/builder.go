package esbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Builder runs production builds with esbuild, driving the pipeline through its build phases.
type Builder struct {
	inputs ports.InputResolver
}

// NewBuilder creates a builder discovering entries with inputs.
func NewBuilder(inputs ports.InputResolver) *Builder {
	return &Builder{inputs: inputs}
}

// entryOutput names the files produced for one entry point, relative to the output directory.
type entryOutput struct {
	js  string
	css string
}

// Build bundles the application described by opts. The pipeline must have seen ConfigResolved.
// The returned bundle holds every chunk and asset; nothing is written to disk.
func (b *Builder) Build(ctx context.Context, p *pipeline.Pipeline, opts domain.Options) (*ports.Bundle, error) {
	root := opts.Root
	outDir := filepath.Join(root, opts.OutDir)

	inputs, err := b.inputs.ResolveInputs(opts.Input, root)
	if err != nil {
		return nil, err
	}

	pages, scripts, err := loadInputs(inputs, root)
	if err != nil {
		return nil, err
	}

	environment := domain.EnvironmentClient
	if opts.SSR {
		environment = domain.EnvironmentSSR
	}
	s := newSession(root, environment, opts.Alias)

	if err := p.BuildStart(ctx, s); err != nil {
		return nil, err
	}

	entries, entryIDs := entryPoints(scripts, s.chunkRequests())
	br := &bridge{ctx: ctx, pipeline: p, session: s, entries: entryIDs}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := api.Build(buildOptions(root, outDir, opts.SSR, entries, br.plugin()))
	if len(result.Errors) > 0 {
		if hookErr := s.err(); hookErr != nil {
			return nil, errors.Join(domain.ErrBuildFailed, hookErr)
		}
		return nil, errors.Join(domain.ErrBuildFailed, messagesError(result.Errors))
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return nil, err
	}

	bundle, outputs, err := collectOutputs(root, outDir, result.OutputFiles, meta, chunkNames(s.chunkRequests()))
	if err != nil {
		return nil, err
	}
	s.attach(bundle)

	if err := p.GenerateBundle(ctx, s, bundle); err != nil {
		return nil, err
	}

	for _, pg := range pages {
		doc, err := pg.rewrite(outputs)
		if err != nil {
			return nil, err
		}
		fileName := metaPath(root, pg.path)
		doc, err = p.TransformHTML(ctx, doc, pipeline.HTMLContext{Path: fileName, Bundle: bundle})
		if err != nil {
			return nil, err
		}
		bundle.Assets = append(bundle.Assets, &ports.OutputAsset{FileName: fileName, Source: doc})
	}

	return bundle, nil
}

func buildOptions(root, outDir string, ssr bool, entries []api.EntryPoint, plugin api.Plugin) api.BuildOptions {
	platform := api.PlatformBrowser
	if ssr {
		platform = api.PlatformNode
	}
	return api.BuildOptions{
		EntryPointsAdvanced: entries,
		Bundle:              true,
		Splitting:           true,
		Format:              api.FormatESModule,
		Platform:            platform,
		Outdir:              outDir,
		EntryNames:          "[dir]/[name]-[hash]",
		ChunkNames:          domain.AssetsDir + "/[name]-[hash]",
		AssetNames:          domain.AssetsDir + "/[name]-[hash]",
		AbsWorkingDir:       root,
		Metafile:            true,
		Write:               false,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{plugin},
	}
}

// loadInputs splits resolved inputs into HTML pages and the script entries they reference.
func loadInputs(inputs []string, root string) ([]*page, []string, error) {
	var pages []*page
	var scripts []string
	seen := make(map[string]bool)

	addScript := func(file string) {
		if !seen[file] {
			seen[file] = true
			scripts = append(scripts, file)
		}
	}

	for _, input := range inputs {
		if !strings.EqualFold(filepath.Ext(input), ".html") {
			addScript(input)
			continue
		}
		content, err := os.ReadFile(input) //nolint:gosec // Inputs come from the project configuration
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "path", input)
		}
		pg, err := loadPage(input, root, content)
		if err != nil {
			return nil, nil, err
		}
		for _, script := range pg.scripts {
			addScript(script.file)
		}
		pages = append(pages, pg)
	}
	return pages, scripts, nil
}

// entryPoints builds esbuild entries for page scripts and emitted chunks. Chunk ids are
// replaced by synthetic paths so that virtual ids never reach esbuild's entry point parser.
func entryPoints(scripts []string, requests []ports.ChunkRequest) ([]api.EntryPoint, map[string]string) {
	entries := make([]api.EntryPoint, 0, len(scripts)+len(requests))
	for _, file := range scripts {
		stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		entries = append(entries, api.EntryPoint{
			InputPath:  file,
			OutputPath: path.Join(domain.AssetsDir, stem),
		})
	}

	// Entry points keep the exact export signature of their module, as SignatureStrict requires.
	ids := make(map[string]string, len(requests))
	for i, req := range requests {
		key := fmt.Sprintf("%s-entry:%d", Namespace, i)
		ids[key] = req.ID
		entries = append(entries, api.EntryPoint{
			InputPath:  key,
			OutputPath: path.Join(domain.AssetsDir, req.Name),
		})
	}
	return entries, ids
}

func chunkNames(requests []ports.ChunkRequest) map[string]string {
	names := make(map[string]string, len(requests))
	for _, req := range requests {
		names[req.ID] = req.Name
	}
	return names
}

// collectOutputs turns esbuild's output files into a bundle ordered by file name, and maps
// every entry module to its outputs.
func collectOutputs(
	root, outDir string,
	files []api.OutputFile,
	meta *metafile,
	names map[string]string,
) (*ports.Bundle, map[string]entryOutput, error) {
	sorted := append([]api.OutputFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	bundle := &ports.Bundle{}
	outputs := make(map[string]entryOutput)

	for _, file := range sorted {
		rel, err := filepath.Rel(outDir, file.Path)
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "path", file.Path)
		}
		fileName := filepath.ToSlash(rel)

		if filepath.Ext(file.Path) != ".js" {
			bundle.Assets = append(bundle.Assets, &ports.OutputAsset{FileName: fileName, Source: file.Contents})
			continue
		}

		out := meta.Outputs[metaPath(root, file.Path)]
		chunk := &ports.OutputChunk{FileName: fileName, Code: file.Contents}
		if out.EntryPoint != "" {
			facade := moduleIDFromMeta(root, out.EntryPoint)
			chunk.FacadeModuleID = facade
			chunk.IsEntry = true
			chunk.Name = names[facade]

			eo := entryOutput{js: fileName}
			if out.CSSBundle != "" {
				if cssRel, err := filepath.Rel(outDir, filepath.Join(root, filepath.FromSlash(out.CSSBundle))); err == nil {
					eo.css = filepath.ToSlash(cssRel)
				}
			}
			outputs[facade] = eo
		}
		if chunk.Name == "" {
			chunk.Name = strings.TrimSuffix(path.Base(fileName), ".js")
		}
		bundle.Chunks = append(bundle.Chunks, chunk)
	}
	return bundle, outputs, nil
}

func messagesError(msgs []api.Message) error {
	errs := make([]error, 0, len(msgs))
	for _, msg := range msgs {
		err := zerr.New(msg.Text)
		if msg.Location != nil {
			err = zerr.With(err, "file", fmt.Sprintf("%s:%d:%d", msg.Location.File, msg.Location.Line, msg.Location.Column))
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
