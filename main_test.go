package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	cfgpkg "quarto-preview/internal/config"
	"quarto-preview/internal/preview"
)

func testCfg() *cfgpkg.Config {
	return &cfgpkg.Config{ProjectMarker: "_quarto_preview_probe.yml"}
}

func mk(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestClassifyTargetFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.qmd")
	mk(t, doc)

	mode, path, workDir, err := classifyTarget(doc, testCfg())
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if mode != preview.ModeFile || path != doc || workDir != dir {
		t.Fatalf("unexpected classification: %v %q %q", mode, path, workDir)
	}
}

func TestClassifyTargetProjectDir(t *testing.T) {
	cfg := testCfg()
	root := t.TempDir()
	mk(t, filepath.Join(root, cfg.ProjectMarker))

	mode, path, workDir, err := classifyTarget(root, cfg)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if mode != preview.ModeProject || path != "" || workDir != root {
		t.Fatalf("unexpected classification: %v %q %q", mode, path, workDir)
	}
}

func TestClassifyTargetFileInsideProject(t *testing.T) {
	cfg := testCfg()
	root := t.TempDir()
	mk(t, filepath.Join(root, cfg.ProjectMarker))
	doc := filepath.Join(root, "ch", "intro.qmd")
	mk(t, doc)

	mode, path, workDir, err := classifyTarget(doc, cfg)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if mode != preview.ModeProject || path != "" || workDir != root {
		t.Fatalf("expected project mode rooted at %s, got %v %q %q", root, mode, path, workDir)
	}
}

func TestClassifyTargetUnsupported(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "notes.txt")
	mk(t, doc)

	_, _, _, err := classifyTarget(doc, testCfg())
	var ute *preview.UnsupportedTypeError
	if !errors.As(err, &ute) || ute.Ext != ".txt" {
		t.Fatalf("expected unsupported-type error for .txt, got %v", err)
	}
}

func TestClassifyTargetDirWithoutMarker(t *testing.T) {
	if _, _, _, err := classifyTarget(t.TempDir(), testCfg()); err == nil {
		t.Fatalf("expected error for a dir with no project marker")
	}
}

func TestNameFromPath(t *testing.T) {
	if got := nameFromPath("docs/my report.qmd"); got != "my-report" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := nameFromPath("."); got != "project" {
		t.Fatalf("unexpected name %q", got)
	}
}
