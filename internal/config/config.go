package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Built-in defaults. The marker file is what makes a directory tree a
// project; the extension set is matched case-sensitively, dot included.
const (
	DefaultCommand = "quarto"
	DefaultMarker  = "_quarto.yml"
)

var DefaultExtensions = []string{".qmd", ".Rmd", ".ipynb", ".md"}

// Config is the explicit, per-caller configuration passed into the preview
// manager at construction. A nil *Config is valid: previews still launch,
// but no auto-close observer is wired.
type Config struct {
	// Command is the preview tool binary.
	Command string `json:"command,omitempty"`
	// ClosePreviewOnExit controls whether closing the document (or
	// quitting the editor) tears the preview surface down. Unset means
	// true.
	ClosePreviewOnExit *bool `json:"close_preview_on_exit,omitempty"`
	// ProjectMarker is the filename searched for in ancestor directories
	// to detect project mode.
	ProjectMarker string `json:"project_marker,omitempty"`
	// Extensions overrides the supported document set.
	Extensions []string `json:"extensions,omitempty"`
	// ExtraArgs is a standing passthrough string appended to every
	// preview invocation, before any per-launch args.
	ExtraArgs string `json:"extra_args,omitempty"`
}

// Default returns a config with every field at its built-in value.
func Default() *Config {
	on := true
	return &Config{
		Command:            DefaultCommand,
		ClosePreviewOnExit: &on,
		ProjectMarker:      DefaultMarker,
		Extensions:         append([]string(nil), DefaultExtensions...),
	}
}

// Load reads a JSON config file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	return &c, nil
}

// Tool returns the preview binary, defaulted.
func (c *Config) Tool() string {
	if c != nil && c.Command != "" {
		return c.Command
	}
	return DefaultCommand
}

// Marker returns the project marker filename, defaulted.
func (c *Config) Marker() string {
	if c != nil && c.ProjectMarker != "" {
		return c.ProjectMarker
	}
	return DefaultMarker
}

// Exts returns the supported extension set, defaulted.
func (c *Config) Exts() []string {
	if c != nil && len(c.Extensions) > 0 {
		return c.Extensions
	}
	return DefaultExtensions
}

// AutoClose reports whether launches should wire the teardown observer.
// No config at all means no auto-close wiring.
func (c *Config) AutoClose() bool {
	if c == nil {
		return false
	}
	return c.ClosePreviewOnExit == nil || *c.ClosePreviewOnExit
}

// Args joins the standing extra args with per-launch args.
func (c *Config) Args(launchArgs string) string {
	if c == nil || c.ExtraArgs == "" {
		return launchArgs
	}
	if launchArgs == "" {
		return c.ExtraArgs
	}
	return c.ExtraArgs + " " + launchArgs
}
