package tui

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxDepth caps the walk below the scanned root; previews are picked from
// nearby files, not a whole home directory.
const maxDepth = 6

// Directories never worth descending into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"renv":         true,
	"_site":        true,
	"_book":        true,
	"_freeze":      true,
}

// Scan collects preview targets under root: directories containing the
// project marker, and files with a supported extension. Paths come back
// relative to root, projects first.
func Scan(root string, exts []string, marker string) ([]Item, error) {
	var projects, files []Item
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are just not offered
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return nil
		}
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			if strings.Count(rel, string(filepath.Separator)) >= maxDepth {
				return filepath.SkipDir
			}
			if _, serr := os.Stat(filepath.Join(path, marker)); serr == nil {
				projects = append(projects, Item{Path: rel, IsProject: true})
			}
			return nil
		}
		if rel == marker {
			// marker at the root itself: the root is a project
			projects = append(projects, Item{Path: ".", IsProject: true})
			return nil
		}
		for _, ext := range exts {
			if filepath.Ext(d.Name()) == ext {
				files = append(files, Item{Path: rel})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Path < projects[j].Path })
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return append(projects, files...), nil
}
