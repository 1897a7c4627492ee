// Copyright
// SPDX-License-Identifier: MIT
// quarto-preview: live preview launcher for Quarto documents, usable as a
// Neovim remote plugin or as a standalone supervisor CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/neovim/go-client/nvim/plugin"

	"quarto-preview/internal/cloudflare"
	cfgpkg "quarto-preview/internal/config"
	"quarto-preview/internal/httpx"
	"quarto-preview/internal/nvimhost"
	"quarto-preview/internal/ports"
	"quarto-preview/internal/preview"
	"quarto-preview/internal/proc"
	"quarto-preview/internal/tui"
)

const Version = "0.3.0"

const (
	stateDirName  = ".quarto-preview"
	stateFileName = "state.json"

	defaultConfig = "quarto-preview.json"

	urlWait    = 30 * time.Second
	serverWait = 10 * time.Second
)

/* ---------- runtime / state ---------- */

// Session records one standalone preview subprocess so `status` and `down`
// work from another shell. Editor-hosted previews are never recorded here;
// their bindings live in the plugin process only.
type Session struct {
	Name      string `json:"name"` // derived from the target path
	Target    string `json:"target"`
	Mode      string `json:"mode"` // project|file
	Command   string `json:"command"`
	PID       int    `json:"pid"`
	URL       string `json:"url,omitempty"`
	StartedAt string `json:"started_at"`
}

type State struct {
	Sessions []Session `json:"sessions"`
}

/* ---------- CLI ---------- */

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) > 2 {
			helpTopic(os.Args[2])
		} else {
			usage()
		}
	case "version", "-v", "--version":
		fmt.Println("quarto-preview", Version)
		return
	case "serve":
		cmdServe()
	case "preview":
		cmdPreview()
	case "status":
		cmdStatus()
	case "down":
		cmdDown()
	case "doctor":
		cmdDoctor()
	default:
		usage()
	}
}

func usage() {
	fmt.Print(`quarto-preview ` + Version + `
Live preview for Quarto documents and projects, inside Neovim or from the terminal.
USAGE
  quarto-preview <command> [options]
COMMANDS
  serve        Run as a Neovim remote plugin (msgpack-RPC on stdio); registers
               :QuartoPreview and :QuartoClosePreview
  preview      Launch a supervised preview from the terminal (Ctrl-C stops it)
  status       Show previews recorded in .quarto-preview/state.json
  down         Stop recorded previews (kills the process group)
  doctor       Check that the preview tool is on PATH
  help         Show help (try: quarto-preview help preview)
  version      Print version
NOTES
  • A directory is previewed in project mode when an ancestor carries _quarto.yml;
    otherwise single files of type .qmd/.Rmd/.ipynb/.md are previewed directly.
  • 'down' works from another shell; a foreground 'preview' also stops on Ctrl-C.

`)
}

func helpTopic(name string) {
	switch name {
	case "preview":
		fmt.Print(`USAGE
  quarto-preview preview [TARGET] [--args STRING] [--config PATH] [--copy]
                          [--share] [--port N] [--tui] [-v] [--log-file PATH]
DESCRIPTION
  Classifies TARGET (a document or a directory) the same way the editor
  integration does, then runs 'quarto preview …' as a supervised subprocess.
  The preview server URL is scraped from the tool's output once it announces
  itself. With no TARGET (or with --tui) an interactive picker lists the
  previewable documents and project roots under the current directory.
OPTIONS
  TARGET                 Document file or project directory. Default: pick interactively.
  --args STRING          Passthrough arguments appended verbatim to the tool invocation.
  --config PATH          JSON config file (default: ./quarto-preview.json if present).
  --copy                 Copy the preview URL to the clipboard once the server is up.
  --share                Start a Cloudflare quick tunnel (needs cloudflared on PATH)
                         and print the public URL.
  --port N               Ask the tool for this server port; 0 picks a free one.
  --tui                  Force the interactive picker even when TARGET is given.
  -v                     Stream subprocess output.
  --log-file PATH        Append subprocess output to a file (created if missing).

`)
	case "serve":
		fmt.Print(`USAGE
  quarto-preview serve [--config PATH]
DESCRIPTION
  Speaks msgpack-RPC on stdio for use as a Neovim remote plugin. Start it from
  Neovim with jobstart(['quarto-preview','serve'], {'rpc': v:true}) and call
  :QuartoPreview [args...] / :QuartoClosePreview. Closing the document buffer
  (or quitting) tears the preview terminal down unless close_preview_on_exit
  is false in the config.

`)
	default:
		usage()
	}
}

/* ---------- serve (Neovim remote plugin) ---------- */

func cmdServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = func() { helpTopic("serve") }
	cfgPath := fs.String("config", "", "Path to JSON config file")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quarto-preview:", err)
		os.Exit(1)
	}
	plugin.Main(func(p *plugin.Plugin) error {
		return nvimhost.Register(p, cfg)
	})
}

/* ---------- preview (standalone supervisor) ---------- */

func cmdPreview() {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	fs.Usage = func() { helpTopic("preview") }
	cfgPath := fs.String("config", "", "Path to JSON config file")
	extraArgs := fs.String("args", "", "Passthrough arguments for the preview tool")
	copyURL := fs.Bool("copy", false, "Copy the preview URL to the clipboard")
	share := fs.Bool("share", false, "Expose the preview through a Cloudflare quick tunnel")
	port := fs.Int("port", -1, "Preview server port (0 picks a free one)")
	useTUI := fs.Bool("tui", false, "Pick the target interactively")
	verbose := fs.Bool("v", false, "Stream subprocess output")
	logPath := fs.String("log-file", "", "Append subprocess output to a file")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quarto-preview:", err)
		os.Exit(1)
	}

	target := fs.Arg(0)
	if target == "" || *useTUI {
		cwd, _ := os.Getwd()
		picked, err := tui.Run(cwd, cfg.Exts(), cfg.Marker())
		if err != nil {
			fmt.Fprintln(os.Stderr, "quarto-preview:", err)
			os.Exit(1)
		}
		if picked == "" {
			fmt.Println("Cancelled.")
			return
		}
		target = picked
	}

	mode, path, dir, err := classifyTarget(target, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quarto-preview:", err)
		os.Exit(1)
	}

	args := cfg.Args(*extraArgs)
	if *port >= 0 {
		p := *port
		if p == 0 {
			if free, err := ports.FindFreePort(); err == nil {
				p = free
			}
		}
		if p > 0 {
			args = strings.TrimSpace(args + fmt.Sprintf(" --port %d", p))
		}
	}
	command := preview.BuildCommand(mode, cfg.Tool(), path, args, runtime.GOOS)

	lf, err := openLogFile(*logPath)
	if err != nil {
		fmt.Println("Could not open log file:", err)
	}
	defer func() {
		if lf != nil {
			_ = lf.Close()
		}
	}()
	logf := func(format string, a ...any) {
		line := fmt.Sprintf(format, a...)
		if *verbose {
			fmt.Println(line)
		}
		if lf != nil {
			logFileMu.Lock()
			_, _ = fmt.Fprintln(lf, line)
			logFileMu.Unlock()
		}
	}

	name := nameFromPath(target)
	urlCh := make(chan string, 1)
	sup := proc.NewSupervisor(logf)
	cmd := proc.ShellCommand(command)
	cmd.Dir = dir
	cmd.SysProcAttr = newSysProcAttrForGroup()
	pv, err := sup.Start("quarto#"+name, cmd, func(line string) {
		if u := proc.BrowseURL(line); u != "" {
			select {
			case urlCh <- u:
			default:
			}
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "quarto-preview: could not start preview: %v\n", err)
		os.Exit(1)
	}
	pid := sup.PID("quarto#" + name)

	st := loadState()
	st.Sessions = append(st.Sessions, Session{
		Name:      name,
		Target:    target,
		Mode:      mode.String(),
		Command:   command,
		PID:       pid,
		StartedAt: time.Now().Format(time.RFC3339),
	})
	saveState(&st)

	fmt.Printf("Previewing %s (%s mode, pid=%d)\n", target, mode, pid)

	doneCh := make(chan struct{}, 1)
	go func() {
		_ = pv.Cmd.Wait()
		doneCh <- struct{}{}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Report the URL once the tool announces it and the server answers.
	go func() {
		select {
		case u := <-urlCh:
			if err := httpx.WaitHTTPUp(u, serverWait); err != nil {
				logf("preview server slow to answer: %v", err)
			}
			sup.SetURL("quarto#"+name, u)
			recordURL(pid, u)
			fmt.Println("Browse at", u)
			if *copyURL {
				if err := clipboard.WriteAll(u); err == nil {
					fmt.Println("(URL copied to clipboard)")
				}
			}
			if *share {
				_, err := cloudflare.ShareTunnel(sup, u, func(pub string) {
					fmt.Println("Shared at", pub)
				})
				if err != nil {
					fmt.Fprintln(os.Stderr, "quarto-preview: could not start tunnel:", err)
				}
			}
		case <-time.After(urlWait):
		}
	}()

	fmt.Println("Press Ctrl+C to stop (or run `quarto-preview down` from another shell).")
	select {
	case <-sigCh:
		fmt.Println("\nReceived signal, shutting down…")
		// The tool spawns its own server children; take down the whole
		// group, then let the supervisor reap and log.
		_ = killProcessGroup(pid)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = sup.StopAll(ctx)
		cancel()
	case <-doneCh:
		fmt.Println("\nPreview process exited.")
		_ = killProcessGroup(pid)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = sup.StopAll(ctx)
		cancel()
	}
	dropSession(pid)
}

// classifyTarget resolves a CLI target into a preview mode, the path to
// embed in the command (file mode only), and the working directory for the
// subprocess.
func classifyTarget(target string, cfg *cfgpkg.Config) (preview.Mode, string, string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return preview.ModeFile, "", "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return preview.ModeFile, "", "", fmt.Errorf("cannot preview %s: %w", target, err)
	}
	if info.IsDir() {
		root, ok := preview.ProjectRootFrom(abs, cfg.Marker())
		if !ok {
			return preview.ModeFile, "", "", fmt.Errorf("%s is not inside a project (no %s found)", target, cfg.Marker())
		}
		return preview.ModeProject, "", root, nil
	}
	if root, ok := preview.ProjectRoot(abs, cfg.Marker()); ok {
		return preview.ModeProject, "", root, nil
	}
	ext := preview.Ext(abs)
	if ext == "" {
		return preview.ModeFile, "", "", fmt.Errorf("cannot preview %s: %w", target, preview.ErrNotInFile)
	}
	if !preview.SupportedExt(ext, cfg.Exts()) {
		return preview.ModeFile, "", "", &preview.UnsupportedTypeError{Ext: ext}
	}
	return preview.ModeFile, abs, filepath.Dir(abs), nil
}

/* ---------- status / down / doctor ---------- */

func cmdStatus() {
	st := loadState()
	if len(st.Sessions) == 0 {
		fmt.Println("No recorded previews.")
		return
	}
	fmt.Println("quarto-preview status:")
	for i, s := range st.Sessions {
		fmt.Printf("[%d] %s\n", i+1, s.Name)
		fmt.Printf("    Target: %s (%s mode)\n", s.Target, s.Mode)
		fmt.Printf("    PID: %d  started %s\n", s.PID, s.StartedAt)
		if s.URL != "" {
			fmt.Printf("    Browse at %s\n", s.URL)
		}
	}
}

func cmdDown() {
	st := loadState()
	if len(st.Sessions) == 0 {
		fmt.Println("No recorded previews.")
		return
	}
	for _, s := range st.Sessions {
		if s.PID > 0 {
			_ = killProcessGroup(s.PID)
			fmt.Printf("Stopped %s (pid %d)\n", s.Name, s.PID)
		}
	}
	st.Sessions = nil
	saveState(&st)
}

func cmdDoctor() {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to JSON config file")
	_ = fs.Parse(os.Args[2:])
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quarto-preview:", err)
		os.Exit(1)
	}
	fmt.Println("Dependency checks:")
	ok := true
	for _, bin := range []string{cfg.Tool(), "nvim", "cloudflared"} {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Printf("  ✗ %s not found in PATH\n", bin)
			if bin == cfg.Tool() {
				ok = false
			}
		} else {
			fmt.Printf("  ✓ %s found\n", bin)
		}
	}
	if ok {
		fmt.Println("Ready to preview.")
	} else {
		fmt.Println("Install the items marked ✗ and retry.")
	}
}

/* ---------- helpers (config, state, io) ---------- */

// loadConfig resolves the active configuration: an explicit --config path
// must load, the default file is used when present, and otherwise built-in
// defaults apply.
func loadConfig(path string) (*cfgpkg.Config, error) {
	if path != "" {
		return cfgpkg.Load(path)
	}
	if _, err := os.Stat(defaultConfig); err == nil {
		return cfgpkg.Load(defaultConfig)
	}
	return cfgpkg.Default(), nil
}

func getStateDir() string { return filepath.Join(".", stateDirName) }
func statePath() string   { return filepath.Join(getStateDir(), stateFileName) }

func saveState(st *State) {
	_ = os.MkdirAll(getStateDir(), 0o755)
	data, _ := json.MarshalIndent(st, "", "  ")
	_ = os.WriteFile(statePath(), data, 0o644)
}

func loadState() State {
	var st State
	data, err := os.ReadFile(statePath())
	if err != nil {
		return st
	}
	_ = json.Unmarshal(data, &st)
	return st
}

func recordURL(pid int, url string) {
	st := loadState()
	for i := range st.Sessions {
		if st.Sessions[i].PID == pid {
			st.Sessions[i].URL = url
		}
	}
	saveState(&st)
}

func dropSession(pid int) {
	st := loadState()
	kept := st.Sessions[:0]
	for _, s := range st.Sessions {
		if s.PID != pid {
			kept = append(kept, s)
		}
	}
	st.Sessions = kept
	saveState(&st)
}

var logFileMu sync.Mutex

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(f, "=== quarto-preview %s started at %s ===\n", Version, time.Now().Format(time.RFC3339))
	return f, nil
}

func nameFromPath(p string) string {
	base := filepath.Base(p)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "project"
	}
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	return base
}
