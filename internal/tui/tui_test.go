package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "notes.qmd"))
	write(t, filepath.Join(root, "readme.md"))
	write(t, filepath.Join(root, "data.csv"))
	write(t, filepath.Join(root, "book", "_quarto.yml"))
	write(t, filepath.Join(root, "book", "ch1.qmd"))
	write(t, filepath.Join(root, ".cache", "hidden.qmd"))
	write(t, filepath.Join(root, "_site", "out.md"))

	items, err := Scan(root, []string{".qmd", ".md"}, "_quarto.yml")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	got := map[string]bool{}
	for _, it := range items {
		got[it.Path] = it.IsProject
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d: %v", len(items), got)
	}
	if isProject, ok := got["book"]; !ok || !isProject {
		t.Fatalf("expected book detected as project: %v", got)
	}
	if _, ok := got[filepath.Join("book", "ch1.qmd")]; !ok {
		t.Fatalf("expected project-internal document listed: %v", got)
	}
	if _, ok := got["data.csv"]; ok {
		t.Fatalf("unsupported extension must not be listed")
	}
	if _, ok := got[filepath.Join("_site", "out.md")]; ok {
		t.Fatalf("render output dirs must be skipped")
	}
	// projects come first
	if !items[0].IsProject {
		t.Fatalf("expected projects sorted first, got %v", items[0])
	}
}

func TestScanRootIsProject(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "_quarto.yml"))
	write(t, filepath.Join(root, "index.qmd"))

	items, err := Scan(root, []string{".qmd"}, "_quarto.yml")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	foundRoot := false
	for _, it := range items {
		if it.Path == "." && it.IsProject {
			foundRoot = true
		}
	}
	if !foundRoot {
		t.Fatalf("expected the root itself offered as a project: %v", items)
	}
}

func TestFilter(t *testing.T) {
	items := []Item{
		{Path: "book", IsProject: true},
		{Path: "book/ch1.qmd"},
		{Path: "notes/todo.md"},
	}
	if got := Filter(items, ""); len(got) != 3 {
		t.Fatalf("empty query must keep everything")
	}
	if got := Filter(items, "BOOK ch1"); len(got) != 1 || got[0].Path != "book/ch1.qmd" {
		t.Fatalf("unexpected filter result: %v", got)
	}
	if got := Filter(items, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}
