package ports

// InputResolver expands input patterns into concrete files.
//
//go:generate go run go.uber.org/mock/mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type InputResolver interface {
	// ResolveInputs resolves the given patterns relative to root into a sorted list of absolute paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}

// OutputWriter persists a generated bundle.
type OutputWriter interface {
	// Write writes every chunk and asset of bundle below outDir.
	Write(outDir string, bundle *Bundle) error
}
