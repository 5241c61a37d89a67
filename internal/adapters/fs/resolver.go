package fs

import (
	"path/filepath"
	"sort"

	"go.trai.ch/importmaps/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver. Patterns without matches fall back to a
// discovery of every HTML file below root when the pattern list is empty.
type Resolver struct {
	walker *Walker
	// ignores lists directories skipped during discovery, typically the output directory.
	ignores []string
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker, ignores ...string) *Resolver {
	return &Resolver{walker: walker, ignores: ignores}
}

// ResolveInputs resolves the given input patterns to a sorted list of concrete file paths.
// An empty pattern list selects every HTML document in the project.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	if len(inputs) == 0 {
		for path := range r.walker.WalkFiles(root, []string{"*.html"}, r.ignores) {
			uniquePaths[path] = true
		}
	}

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, input)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("input not found"), "path", path)
		}
		for _, match := range matches {
			uniquePaths[match] = true
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
