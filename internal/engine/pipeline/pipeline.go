// Package pipeline sequences the import map extensions through the phases of a host build
// or dev server session.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/zerr"
)

// Command is the host mode a pipeline runs in.
type Command string

const (
	// CommandBuild produces a production bundle.
	CommandBuild Command = "build"
	// CommandServe runs the dev server.
	CommandServe Command = "serve"
)

// Apply restricts an extension to one command.
type Apply uint8

const (
	// ApplyBoth runs the extension for builds and dev sessions.
	ApplyBoth Apply = iota
	// ApplyBuild runs the extension for builds only.
	ApplyBuild
	// ApplyServe runs the extension for dev sessions only.
	ApplyServe
)

func (a Apply) matches(cmd Command) bool {
	switch a {
	case ApplyBuild:
		return cmd == CommandBuild
	case ApplyServe:
		return cmd == CommandServe
	default:
		return true
	}
}

// Name prefixes an extension name with the project namespace.
func Name(suffix string) string {
	return "importmaps:" + suffix
}

// ResolvedConfig is the host configuration handed to extensions once it is final.
type ResolvedConfig struct {
	Command Command
	// Root is the absolute project root.
	Root string
	// OutDir is the absolute output directory.
	OutDir string
	Logger ports.Logger
}

// Resolution is the outcome of a ResolveID hook.
type Resolution struct {
	ID       string
	External bool
	// Meta is attached to the module and returned by ModuleInfo.
	Meta *domain.ChunkEntrypoint
	// SideEffects is the hint for hosts that fix side effects when a module is resolved.
	SideEffects ports.SideEffects
}

// LoadResult is the outcome of a Load hook.
type LoadResult struct {
	Code        string
	SideEffects ports.SideEffects
}

// HTMLContext describes the document passed to TransformHTML hooks.
type HTMLContext struct {
	// Path is the request path when serving and the output file name when building.
	Path string
	// Dev is set when serving.
	Dev ports.DevHost
	// Bundle is set when building.
	Bundle *ports.Bundle
}

// Extension is one participant of the pipeline. Nil hooks are skipped.
// The BuildContext passed to ResolveID and Load is nil when serving.
type Extension struct {
	Name  string
	Apply Apply

	ConfigResolved  func(cfg ResolvedConfig)
	ConfigureServer func(server ports.ServerHooks)
	BuildStart      func(ctx context.Context, bctx ports.BuildContext) error
	ResolveID       func(ctx context.Context, bctx ports.BuildContext, id, importer string) (*Resolution, error)
	Load            func(ctx context.Context, bctx ports.BuildContext, id string) (*LoadResult, error)
	GenerateBundle  func(ctx context.Context, bctx ports.BuildContext, bundle *ports.Bundle) error
	TransformHTML   func(ctx context.Context, html []byte, hctx HTMLContext) ([]byte, error)
}

// Pipeline dispatches host hooks to the applicable extensions in registration order
// and rejects hooks that arrive out of phase.
type Pipeline struct {
	mu         sync.Mutex
	command    Command
	phase      Phase
	extensions []Extension
	tracer     ports.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracer records a span per dispatched phase.
func WithTracer(tracer ports.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// New creates a pipeline for cmd keeping only the extensions that apply to it.
func New(cmd Command, extensions []Extension, opts ...Option) *Pipeline {
	p := &Pipeline{command: cmd}
	for _, ext := range extensions {
		if ext.Apply.matches(cmd) {
			p.extensions = append(p.extensions, ext)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase returns the current phase.
func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Extensions returns the names of the active extensions in dispatch order.
func (p *Pipeline) Extensions() []string {
	names := make([]string, 0, len(p.extensions))
	for _, ext := range p.extensions {
		names = append(names, ext.Name)
	}
	return names
}

// advance moves to next if the transition is legal for the pipeline's command.
func (p *Pipeline) advance(next Phase) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(transitions[p.command][next], p.phase) {
		err := zerr.With(domain.ErrPhaseOrder, "from", p.phase.String())
		err = zerr.With(err, "to", next.String())
		return zerr.With(err, "command", string(p.command))
	}
	p.phase = next
	return nil
}

// require checks that hooks bound to the module graph may run in the current phase.
func (p *Pipeline) require(hook string, allowed ...Phase) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(allowed, p.phase) {
		err := zerr.With(domain.ErrPhaseOrder, "hook", hook)
		return zerr.With(err, "phase", p.phase.String())
	}
	return nil
}

func (p *Pipeline) span(ctx context.Context, name string) (context.Context, func(error)) {
	if p.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := p.tracer.Start(ctx, name)
	span.SetAttribute("importmaps.command", string(p.command))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

func hookError(err error, ext Extension, hook string) error {
	return zerr.With(zerr.With(err, "extension", ext.Name), "hook", hook)
}

// ConfigResolved hands the final host configuration to every extension.
func (p *Pipeline) ConfigResolved(cfg ResolvedConfig) error {
	if err := p.advance(PhaseConfigResolved); err != nil {
		return err
	}
	cfg.Command = p.command
	for _, ext := range p.extensions {
		if ext.ConfigResolved != nil {
			ext.ConfigResolved(cfg)
		}
	}
	return nil
}

// ConfigureServer lets extensions install dev server middleware.
func (p *Pipeline) ConfigureServer(server ports.ServerHooks) error {
	if err := p.advance(PhaseConfigureServer); err != nil {
		return err
	}
	for _, ext := range p.extensions {
		if ext.ConfigureServer != nil {
			ext.ConfigureServer(server)
		}
	}
	return nil
}

// BuildStart runs before the host starts loading modules.
func (p *Pipeline) BuildStart(ctx context.Context, bctx ports.BuildContext) (err error) {
	if err := p.advance(PhaseBuildStart); err != nil {
		return err
	}
	ctx, end := p.span(ctx, "buildStart")
	defer func() { end(err) }()

	for _, ext := range p.extensions {
		if ext.BuildStart == nil {
			continue
		}
		if err := ext.BuildStart(ctx, bctx); err != nil {
			return hookError(err, ext, "buildStart")
		}
	}
	return nil
}

// ResolveID returns the first non-nil resolution. A nil result leaves resolution to the host.
func (p *Pipeline) ResolveID(
	ctx context.Context,
	bctx ports.BuildContext,
	id, importer string,
) (*Resolution, error) {
	if err := p.require("resolveId", PhaseBuildStart, PhaseConfigureServer, PhaseTransformHTML); err != nil {
		return nil, err
	}
	for _, ext := range p.extensions {
		if ext.ResolveID == nil {
			continue
		}
		res, err := ext.ResolveID(ctx, bctx, id, importer)
		if err != nil {
			return nil, hookError(err, ext, "resolveId")
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// Load returns the first non-nil load result. A nil result leaves loading to the host.
func (p *Pipeline) Load(ctx context.Context, bctx ports.BuildContext, id string) (*LoadResult, error) {
	if err := p.require("load", PhaseBuildStart, PhaseConfigureServer, PhaseTransformHTML); err != nil {
		return nil, err
	}
	for _, ext := range p.extensions {
		if ext.Load == nil {
			continue
		}
		res, err := ext.Load(ctx, bctx, id)
		if err != nil {
			return nil, hookError(err, ext, "load")
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

// GenerateBundle runs once the host has named and rendered every chunk.
func (p *Pipeline) GenerateBundle(ctx context.Context, bctx ports.BuildContext, bundle *ports.Bundle) (err error) {
	if err := p.advance(PhaseGenerateBundle); err != nil {
		return err
	}
	ctx, end := p.span(ctx, "generateBundle")
	defer func() { end(err) }()

	for _, ext := range p.extensions {
		if ext.GenerateBundle == nil {
			continue
		}
		if err := ext.GenerateBundle(ctx, bctx, bundle); err != nil {
			return hookError(err, ext, "generateBundle")
		}
	}
	return nil
}

// TransformHTML threads an HTML document through every extension's transform.
func (p *Pipeline) TransformHTML(ctx context.Context, html []byte, hctx HTMLContext) (out []byte, err error) {
	if err := p.advance(PhaseTransformHTML); err != nil {
		return nil, err
	}
	ctx, end := p.span(ctx, fmt.Sprintf("transformHtml %s", hctx.Path))
	defer func() { end(err) }()

	out = html
	for _, ext := range p.extensions {
		if ext.TransformHTML == nil {
			continue
		}
		next, err := ext.TransformHTML(ctx, out, hctx)
		if err != nil {
			return nil, hookError(err, ext, "transformHtml")
		}
		if next != nil {
			out = next
		}
	}
	return out, nil
}
