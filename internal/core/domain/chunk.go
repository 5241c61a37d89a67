package domain

import "strings"

const (
	// VirtualChunkPrefix is the private namespace for generated re-export shims.
	// The leading NUL keeps other resolvers from treating the id as a path.
	VirtualChunkPrefix = "\x00virtual:import-map-chunk"

	// VirtualImportMapID is the public id consumers import to read the import map.
	VirtualImportMapID = "virtual:importmap"

	// ResolvedVirtualImportMapID is the resolved form of VirtualImportMapID.
	ResolvedVirtualImportMapID = "\x00" + VirtualImportMapID
)

// ChunkEntrypoint describes one shared dependency registered for emission as its own chunk.
type ChunkEntrypoint struct {
	// OriginalName is the logical import name.
	OriginalName string
	// NormalizedName is a slash-free identifier derived from OriginalName.
	NormalizedName string
	// OutputPathHint is the desired chunk name, relative to the output directory.
	OutputPathHint string
	// SourceID is the specifier or path the chunk is built from.
	SourceID string
	// LocalFile reports whether SourceID is a path relative to the project root.
	LocalFile bool
	// Integrity is the digest mode for the emitted chunk.
	Integrity IntegrityMode
}

// NormalizeDependencyName makes a dependency name usable as a chunk name.
//
//	@scope/package-name          -> @scope_package-name
//	package-name/sub-entrypoint  -> package-name_sub-entrypoint
func NormalizeDependencyName(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

// VirtualChunkID returns the synthetic module id for a normalized dependency name.
func VirtualChunkID(normalizedName string) string {
	return VirtualChunkPrefix + "/" + normalizedName
}

// IsVirtualChunkID reports whether id lives in the virtual chunk namespace.
func IsVirtualChunkID(id string) bool {
	return strings.HasPrefix(id, VirtualChunkPrefix)
}

// NormalizedNameFromVirtualID extracts the normalized dependency name from a virtual chunk id.
func NormalizedNameFromVirtualID(id string) (string, bool) {
	if !strings.HasPrefix(id, VirtualChunkPrefix+"/") {
		return "", false
	}
	return id[len(VirtualChunkPrefix)+1:], true
}

// StripQuery removes a "?query" suffix from a resolved module id.
func StripQuery(id string) string {
	if i := strings.IndexByte(id, '?'); i >= 0 {
		return id[:i]
	}
	return id
}
