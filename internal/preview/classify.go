package preview

import (
	"os"
	"path/filepath"
)

// ProjectRootFrom walks dir and its ancestors looking for marker. It returns
// the first directory containing it. Safe at the filesystem root.
func ProjectRootFrom(dir, marker string) (string, bool) {
	if dir == "" {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// ProjectRoot is ProjectRootFrom starting at the directory containing path.
// An empty path has no ancestors and is never inside a project.
func ProjectRoot(path, marker string) (string, bool) {
	if path == "" {
		return "", false
	}
	return ProjectRootFrom(filepath.Dir(path), marker)
}

// Ext returns the text after the last '.' of the final path segment,
// including the dot, or "" if the segment has none.
func Ext(path string) string {
	return filepath.Ext(path)
}

// SupportedExt reports whether ext is one of set.
func SupportedExt(ext string, set []string) bool {
	for _, s := range set {
		if ext == s {
			return true
		}
	}
	return false
}
