package util

import (
	"path/filepath"
	"strings"
)

// HasTraversal reports whether p contains a ".." path element, using either
// slash style. It inspects the raw value, before any cleaning.
func HasTraversal(p string) bool {
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

// SafeJoin joins a URL-style path onto root. It returns false when the raw
// path contains a traversal element or the cleaned result would escape root.
func SafeJoin(root, urlPath string) (string, bool) {
	if HasTraversal(urlPath) {
		return "", false
	}
	rel := filepath.FromSlash(strings.TrimLeft(urlPath, "/"))
	full := filepath.Join(root, rel)

	cleanRoot := filepath.Clean(root)
	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// ResolvePath resolves a path referenced from a config file. Absolute paths
// and paths that exist relative to the working directory are returned as-is;
// anything else is taken relative to baseDir.
func ResolvePath(baseDir, p string, exists func(string) bool) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	if exists != nil && exists(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
