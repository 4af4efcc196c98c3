package mediatypes

import (
	"sort"
	"strings"

	"image-indexer/internal/indexerr"
)

// DefaultExtensions is the allow-list used when the caller configures none.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp"}

// DecodableExtensions lists the extensions a registered decoder can read.
// Extensions outside this set may still be scanned, but will fail to decode.
var DecodableExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
	"webp": true,
}

// ExtensionSet is an immutable set of lowercase extensions without the leading dot.
type ExtensionSet map[string]struct{}

// NewExtensionSet normalizes exts: entries are trimmed, lowercased and stripped
// of one leading dot. Empty entries are ignored, and an empty result falls back
// to DefaultExtensions. An entry that still contains a dot or a path separator
// can never match a file extension and is rejected with KindInvalidExtension.
func NewExtensionSet(exts []string) (ExtensionSet, error) {
	set := make(ExtensionSet, len(exts))
	for _, raw := range exts {
		ext := strings.ToLower(strings.TrimSpace(raw))
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		if strings.ContainsAny(ext, `./\`) {
			return nil, indexerr.New(indexerr.KindInvalidExtension, "normalize_extensions", raw)
		}
		set[ext] = struct{}{}
	}

	if len(set) == 0 {
		for _, ext := range DefaultExtensions {
			set[ext] = struct{}{}
		}
	}
	return set, nil
}

// Contains reports whether ext (already lowercase, no dot) is in the set.
func (s ExtensionSet) Contains(ext string) bool {
	_, ok := s[ext]
	return ok
}

// Sorted returns the extensions in lexical order, for logging.
func (s ExtensionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ExtensionOf returns the lowercase extension of a file name without the dot.
// Names with no dot, a trailing dot, or only a leading dot (".profile") have
// no extension.
func ExtensionOf(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", false
	}
	return strings.ToLower(name[i+1:]), true
}
