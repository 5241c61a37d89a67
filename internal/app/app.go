// Package app implements the application layer for importmaps.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/importmaps/internal/adapters/devserver"
	"go.trai.ch/importmaps/internal/adapters/esbuild"
	"go.trai.ch/importmaps/internal/adapters/fs"
	"go.trai.ch/importmaps/internal/adapters/telemetry"
	"go.trai.ch/importmaps/internal/adapters/watcher"
	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Bundler produces the bundle of a production build.
type Bundler interface {
	Build(ctx context.Context, p *pipeline.Pipeline, opts domain.Options) (*ports.Bundle, error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	bundler      Bundler
	writer       ports.OutputWriter
	watcher      ports.Watcher
	provider     *telemetry.Provider
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	bundler Bundler,
	writer ports.OutputWriter,
	w ports.Watcher,
	provider *telemetry.Provider,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		bundler:      bundler,
		writer:       writer,
		watcher:      w,
		provider:     provider,
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Config is the configuration file or the directory discovery starts from.
	Config string
	// OutDir overrides the configured output directory.
	OutDir string
	JSON   bool
}

// DevOptions configuration for the Dev method.
type DevOptions struct {
	// Config is the configuration file or the directory discovery starts from.
	Config string
	Host   string
	Port   int
	JSON   bool
}

// Build runs a production build and writes the bundle to the output directory.
func (a *App) Build(ctx context.Context, opts BuildOptions) (err error) {
	a.setJSON(opts.JSON)

	// 1. Load the configuration
	options, err := a.load(opts.Config)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		options.OutDir = opts.OutDir
	}

	tracer := a.tracer(options.Log)
	defer a.shutdown(ctx)
	ctx, span := tracer.Start(ctx, "build")
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	// 2. Compose the pipeline
	s, err := store.New(options)
	if err != nil {
		return err
	}
	p := pipeline.New(pipeline.CommandBuild, NewExtensions(s, options, a.logger), pipeline.WithTracer(tracer))
	outDir := filepath.Join(options.Root, options.OutDir)
	if err := p.ConfigResolved(pipeline.ResolvedConfig{
		Command: pipeline.CommandBuild,
		Root:    options.Root,
		OutDir:  outDir,
		Logger:  a.logger,
	}); err != nil {
		return err
	}

	// 3. Bundle
	bundle, err := a.bundler.Build(ctx, p, options)
	if err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			return err
		}
		return errors.Join(domain.ErrBuildFailed, err)
	}

	// 4. Write
	if err := a.writer.Write(outDir, bundle); err != nil {
		return err
	}
	span.SetAttribute("importmaps.chunks", len(bundle.Chunks))
	span.SetAttribute("importmaps.assets", len(bundle.Assets))
	ports.Scoped(a.logger, "importmaps").Info(fmt.Sprintf("Wrote %d chunks and %d assets to %s",
		len(bundle.Chunks), len(bundle.Assets), outDir))
	return nil
}

// Dev serves the application until ctx is done.
func (a *App) Dev(ctx context.Context, opts DevOptions) error {
	a.setJSON(opts.JSON)

	// 1. Load the configuration
	options, err := a.load(opts.Config)
	if err != nil {
		return err
	}
	if opts.Host != "" {
		options.Server.Host = opts.Host
	}
	if opts.Port != 0 {
		options.Server.Port = opts.Port
	}

	tracer := a.tracer(options.Log)
	defer a.shutdown(ctx)

	// 2. Compose the pipeline
	s, err := store.New(options)
	if err != nil {
		return err
	}
	p := pipeline.New(pipeline.CommandServe, NewExtensions(s, options, a.logger), pipeline.WithTracer(tracer))
	if err := p.ConfigResolved(pipeline.ResolvedConfig{
		Command: pipeline.CommandServe,
		Root:    options.Root,
		OutDir:  filepath.Join(options.Root, options.OutDir),
		Logger:  a.logger,
	}); err != nil {
		return err
	}

	// 3. Assemble the dev host
	versioner := fs.NewVersioner(options.Root)
	host := devserver.NewHost(options.Root, esbuild.NewResolver(options.Root, options.Alias), versioner)
	compiler, err := devserver.NewCompiler(options.Root, options.Alias, sharedNames(s), devserver.DefaultCacheSize)
	if err != nil {
		return err
	}
	server := devserver.NewServer(options.Root, p, host, compiler, a.logger)
	if err := p.ConfigureServer(server); err != nil {
		return err
	}
	invalidator := watcher.NewInvalidator(a.watcher, versioner, a.logger, options.Root, versioner.Paths(), options.Log)

	// 4. Serve and watch concurrently
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return invalidator.Run(ctx)
	})
	g.Go(func() error {
		return server.ListenAndServe(ctx, options.Server.Host, options.Server.Port)
	})
	return g.Wait()
}

func (a *App) load(location string) (domain.Options, error) {
	if location == "" {
		location = "."
	}
	options, err := a.configLoader.Load(location)
	if err != nil {
		return domain.Options{}, zerr.Wrap(err, "failed to load configuration")
	}
	return options, nil
}

func (a *App) tracer(verbose bool) ports.Tracer {
	if a.provider == nil {
		return telemetry.NewNoOpTracer()
	}
	if verbose {
		a.provider.AttachLogger(a.logger)
	}
	return a.provider.Tracer()
}

func (a *App) shutdown(ctx context.Context) {
	if a.provider == nil {
		return
	}
	if err := a.provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error(err)
	}
}

func (a *App) setJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(enable)
	}
}

func sharedNames(s *store.Store) []string {
	deps := s.Dependencies()
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)
	}
	return names
}
