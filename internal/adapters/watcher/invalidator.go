package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.trai.ch/importmaps/internal/core/ports"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

// Invalidator invalidates the dependency-graph version whenever a manifest changes or a
// package is added to or removed from node_modules.
type Invalidator struct {
	watcher   ports.Watcher
	versioner ports.GraphVersioner
	logger    ports.Logger
	verbose   bool
	window    time.Duration

	root        string
	nodeModules string
	manifests   map[string]struct{}
}

// NewInvalidator creates an invalidator for the project at root observing manifests.
func NewInvalidator(
	w ports.Watcher,
	versioner ports.GraphVersioner,
	logger ports.Logger,
	root string,
	manifests []string,
	verbose bool,
) *Invalidator {
	set := make(map[string]struct{}, len(manifests))
	for _, m := range manifests {
		set[filepath.Clean(m)] = struct{}{}
	}
	return &Invalidator{
		watcher:     w,
		versioner:   versioner,
		logger:      ports.Scoped(logger, "importmaps:development"),
		verbose:     verbose,
		window:      DefaultDebounceWindow,
		root:        root,
		nodeModules: filepath.Join(root, "node_modules"),
		manifests:   set,
	}
}

// WithWindow overrides the debounce window.
func (i *Invalidator) WithWindow(window time.Duration) *Invalidator {
	i.window = window
	return i
}

// Run watches until ctx is done, then stops the watcher.
func (i *Invalidator) Run(ctx context.Context) error {
	if err := i.watcher.Start(ctx, []string{i.root, i.nodeModules}); err != nil {
		return err
	}

	debouncer := NewDebouncer(i.window, i.invalidate)
	for event := range i.watcher.Events() {
		if i.relevant(event.Path) {
			debouncer.Add(event.Path)
		}
	}
	debouncer.Flush()

	return i.watcher.Stop()
}

func (i *Invalidator) relevant(path string) bool {
	path = filepath.Clean(path)
	if _, ok := i.manifests[path]; ok {
		return true
	}
	return filepath.Dir(path) == i.nodeModules
}

func (i *Invalidator) invalidate(paths []string) {
	i.versioner.Invalidate(paths)
	if i.verbose && i.logger != nil {
		i.logger.Info(fmt.Sprintf("Dependency graph changed (%d files)", len(paths)))
	}
}
