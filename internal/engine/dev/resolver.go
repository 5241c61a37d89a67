// Package dev binds shared dependencies to live dev server URLs.
package dev

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.trai.ch/importmaps/internal/core/domain"
	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/importmaps/internal/engine/pipeline"
	"go.trai.ch/importmaps/internal/engine/store"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves every shared dependency through the dev host and memoizes the result
// until the dependency-graph version changes.
type Resolver struct {
	store  *store.Store
	logger ports.Logger
	name   string

	mu      sync.Mutex
	version string
	valid   bool
	cached  []domain.Binding
}

// NewResolver creates a dev resolver backed by s.
func NewResolver(s *store.Store, logger ports.Logger) *Resolver {
	return &Resolver{
		store:  s,
		logger: ports.Scoped(logger, pipeline.Name("development")),
		name:   pipeline.Name("development"),
	}
}

// Extension returns the pipeline extension for the dev resolver.
func (r *Resolver) Extension() pipeline.Extension {
	return pipeline.Extension{
		Name:  r.name,
		Apply: pipeline.ApplyServe,
		TransformHTML: func(ctx context.Context, _ []byte, hctx pipeline.HTMLContext) ([]byte, error) {
			if hctx.Dev == nil {
				return nil, nil
			}
			return nil, r.TransformHTML(ctx, hctx.Dev)
		},
	}
}

// TransformHTML refreshes the binding registry from the dev host. It never injects anything.
// Dependencies that fail to resolve are left out of the import map.
func (r *Resolver) TransformHTML(ctx context.Context, dev ports.DevHost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	version, err := dev.GraphVersion()
	if err != nil && r.store.Log() {
		r.logger.Error(zerr.Wrap(err, domain.ErrGraphVersionFailed.Error()))
	}

	bindings := r.cached
	if err != nil || !r.valid || version != r.version {
		bindings, err = r.resolveAll(ctx, dev)
		if err != nil {
			return err
		}
		r.cached = bindings
		r.version = version
		r.valid = version != ""
		r.store.ClearBindings()
	}

	for _, b := range bindings {
		r.store.UpsertBinding(b)
	}
	return nil
}

func (r *Resolver) resolveAll(ctx context.Context, dev ports.DevHost) ([]domain.Binding, error) {
	deps := r.store.Dependencies()
	results := make([]*domain.Binding, len(deps))
	root := dev.Root()

	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		g.Go(func() error {
			resolved, err := dev.Resolve(gctx, dep.Entry)
			if err != nil {
				if r.store.Log() {
					r.logger.Warn(fmt.Sprintf("Could not resolve %s: %v", dep.Name, err))
				}
				return nil
			}
			if resolved == nil {
				if r.store.Log() {
					r.logger.Warn(fmt.Sprintf("Could not resolve %s", dep.Name))
				}
				return nil
			}

			url := domain.FileToURL(resolved.ID, root)
			if r.store.Log() {
				r.logger.Info(fmt.Sprintf("Added %s: %s", dep.Name, url))
			}
			results[i] = &domain.Binding{Name: dep.Name, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bindings := make([]domain.Binding, 0, len(results))
	for _, b := range results {
		if b != nil {
			bindings = append(bindings, *b)
		}
	}
	return bindings, nil
}

// Cached returns the memoized bindings and the graph version they were resolved at.
func (r *Resolver) Cached() ([]domain.Binding, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.cached), r.version
}
