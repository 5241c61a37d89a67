package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// FSPrefix marks dev-server URLs for files outside the project root.
const FSPrefix = "/@fs/"

// FileToURL maps an absolute file path to the URL the dev server serves it from.
// Files inside root become root-relative URLs, everything else is served under FSPrefix.
func FileToURL(file, root string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path.Join(FSPrefix, filepath.ToSlash(file))
	}
	return "/" + filepath.ToSlash(rel)
}

// URLToFile is the inverse of FileToURL.
func URLToFile(url, root string) string {
	if strings.HasPrefix(url, FSPrefix) {
		return filepath.FromSlash("/" + strings.TrimPrefix(url, FSPrefix))
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/")))
}

// ChunkURL is the import map URL of an emitted chunk.
func ChunkURL(fileName string) string {
	return "./" + strings.TrimPrefix(filepath.ToSlash(fileName), "/")
}
