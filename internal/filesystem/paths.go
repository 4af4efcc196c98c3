package filesystem

import (
	"path/filepath"
	"strings"
)

// HasPathPrefix reports whether prefix is a leading run of whole components
// of path. Both sides are cleaned lexically first, so "root/cache" matches
// "root/cache" and "root/cache/x.jpg" but not "root/cachefoo". Absolute and
// relative paths never match each other; callers should pass both in the
// same form.
func HasPathPrefix(path, prefix string) bool {
	p := filepath.Clean(path)
	pre := filepath.Clean(prefix)

	if p == pre {
		return true
	}
	if strings.HasSuffix(pre, string(filepath.Separator)) {
		// filesystem root, e.g. "/"
		return strings.HasPrefix(p, pre)
	}
	return strings.HasPrefix(p, pre+string(filepath.Separator))
}
