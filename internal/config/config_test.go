package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Tool() != "quarto" {
		t.Fatalf("expected quarto, got %q", c.Tool())
	}
	if c.Marker() != "_quarto.yml" {
		t.Fatalf("expected _quarto.yml, got %q", c.Marker())
	}
	if !c.AutoClose() {
		t.Fatalf("expected auto-close on by default")
	}
	if got := len(c.Exts()); got != 4 {
		t.Fatalf("expected 4 default extensions, got %d", got)
	}
}

func TestNilConfig(t *testing.T) {
	var c *Config
	if c.Tool() != "quarto" || c.Marker() != "_quarto.yml" {
		t.Fatalf("nil config must fall back to defaults")
	}
	if c.AutoClose() {
		t.Fatalf("nil config must not enable auto-close")
	}
	if c.Args("--x") != "--x" {
		t.Fatalf("nil config must pass launch args through")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quarto-preview.json")
	data := `{"command":"quarto-next","close_preview_on_exit":false,"extra_args":"--no-browser"}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Tool() != "quarto-next" {
		t.Fatalf("expected overridden command, got %q", c.Tool())
	}
	if c.AutoClose() {
		t.Fatalf("expected auto-close disabled")
	}
	if c.Marker() != "_quarto.yml" {
		t.Fatalf("unset fields must keep defaults")
	}
	if got := c.Args("--port 7780"); got != "--no-browser --port 7780" {
		t.Fatalf("unexpected args join: %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
