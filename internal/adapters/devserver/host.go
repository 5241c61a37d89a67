// Package devserver serves the application during development: HTML documents pass through
// the pipeline and scripts are bundled on request.
package devserver

import (
	"context"

	"go.trai.ch/importmaps/internal/core/ports"
)

var _ ports.DevHost = (*Host)(nil)

// SpecifierResolver resolves bare specifiers from the project root.
type SpecifierResolver interface {
	Resolve(ctx context.Context, specifier string) (*ports.ResolvedID, error)
}

// Host is the ports.DevHost of a dev server session.
type Host struct {
	root      string
	resolver  SpecifierResolver
	versioner ports.GraphVersioner
}

// NewHost creates a host for the project at root.
func NewHost(root string, resolver SpecifierResolver, versioner ports.GraphVersioner) *Host {
	return &Host{root: root, resolver: resolver, versioner: versioner}
}

// Root returns the absolute project root.
func (h *Host) Root() string {
	return h.root
}

// Resolve resolves specifier from the project root.
func (h *Host) Resolve(ctx context.Context, specifier string) (*ports.ResolvedID, error) {
	return h.resolver.Resolve(ctx, specifier)
}

// GraphVersion returns the current dependency-graph version token.
func (h *Host) GraphVersion() (string, error) {
	return h.versioner.Version()
}
