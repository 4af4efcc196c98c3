package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"image-indexer/internal/filesystem"
	"image-indexer/internal/mediatypes"
)

// resourceForkPrefix marks AppleDouble companion files ("._photo.jpg").
const resourceForkPrefix = "._"

// SkipReason says why PathFilter rejected an entry. The zero value means accepted.
type SkipReason string

const (
	Accepted         SkipReason = ""
	SkipNotRegular   SkipReason = "not_regular"
	SkipExcluded     SkipReason = "excluded"
	SkipResourceFork SkipReason = "resource_fork"
	SkipExtension    SkipReason = "extension"
)

// PathFilter decides whether a filesystem entry belongs in the scan output.
// It holds no mutable state and is shared by value across walker goroutines.
type PathFilter struct {
	excludes   []string
	extensions mediatypes.ExtensionSet
}

// NewPathFilter builds a filter. Blank exclude prefixes are dropped because
// an empty prefix would match every path.
func NewPathFilter(excludePrefixes []string, extensions mediatypes.ExtensionSet) PathFilter {
	excludes := make([]string, 0, len(excludePrefixes))
	for _, p := range excludePrefixes {
		if strings.TrimSpace(p) == "" {
			continue
		}
		excludes = append(excludes, filepath.Clean(p))
	}
	return PathFilter{excludes: excludes, extensions: extensions}
}

// Check classifies the entry at path. mode must describe the entry after
// symlink resolution, so a link to a regular file counts as a regular file.
func (f PathFilter) Check(path string, mode fs.FileMode) SkipReason {
	if !mode.IsRegular() {
		return SkipNotRegular
	}

	if f.IsExcluded(path) {
		return SkipExcluded
	}

	name := filepath.Base(path)
	if strings.HasPrefix(name, resourceForkPrefix) {
		return SkipResourceFork
	}

	ext, ok := mediatypes.ExtensionOf(name)
	if !ok || !f.extensions.Contains(ext) {
		return SkipExtension
	}

	return Accepted
}

// IsExcluded reports whether any exclude prefix is a component-wise prefix of path.
func (f PathFilter) IsExcluded(path string) bool {
	for _, prefix := range f.excludes {
		if filesystem.HasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}
