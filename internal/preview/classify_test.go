package preview

import (
	"os"
	"path/filepath"
	"testing"
)

const testMarker = "_quarto.yml"

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestProjectRootFoundAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, testMarker))

	shallow := filepath.Join(root, "doc.qmd")
	deep := filepath.Join(root, "a", "b", "c", "doc.qmd")
	touch(t, shallow)
	touch(t, deep)

	for _, p := range []string{shallow, deep} {
		dir, ok := ProjectRoot(p, testMarker)
		if !ok {
			t.Fatalf("expected project root for %s", p)
		}
		if dir != root {
			t.Fatalf("expected root %s, got %s", root, dir)
		}
	}
}

func TestProjectRootAbsent(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "x", "doc.qmd")
	touch(t, p)
	// Marker name chosen so nothing on the real ancestor chain matches.
	if _, ok := ProjectRoot(p, "_quarto_preview_probe.yml"); ok {
		t.Fatalf("expected no project root")
	}
}

func TestProjectRootEmptyPath(t *testing.T) {
	if _, ok := ProjectRoot("", testMarker); ok {
		t.Fatalf("empty path must not resolve a project root")
	}
}

func TestExt(t *testing.T) {
	if got := Ext("a/b.c.qmd"); got != ".qmd" {
		t.Fatalf("expected .qmd, got %q", got)
	}
	if got := Ext("a/b"); got != "" {
		t.Fatalf("expected empty extension, got %q", got)
	}
	if got := Ext("a.dir/file"); got != "" {
		t.Fatalf("dot in a parent segment must not count, got %q", got)
	}
}

func TestSupportedExt(t *testing.T) {
	set := []string{".qmd", ".Rmd", ".ipynb", ".md"}
	for _, ext := range set {
		if !SupportedExt(ext, set) {
			t.Fatalf("expected %s supported", ext)
		}
	}
	for _, ext := range []string{"", ".txt", ".QMD", ".rmd", "qmd", ".markdown"} {
		if SupportedExt(ext, set) {
			t.Fatalf("expected %q unsupported", ext)
		}
	}
}
