package proc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Preview is one running preview subprocess.
type Preview struct {
	Cmd  *exec.Cmd
	Name string
	URL  string // preview server URL once scraped from output
}

// Supervisor starts preview subprocesses, streams their output, and stops
// them on demand.
type Supervisor struct {
	mu       sync.Mutex
	previews map[string]*Preview
	log      func(format string, args ...any)
}

func NewSupervisor(logger func(string, ...any)) *Supervisor {
	return &Supervisor{previews: map[string]*Preview{}, log: logger}
}

// Start launches cmd under the given name. Each non-blank output line is
// logged and handed to onLine (the URL scraper hook), if set.
func (s *Supervisor) Start(name string, cmd *exec.Cmd, onLine func(string)) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.previews[name]; ok {
		return nil, errors.New(name + " already started")
	}
	stderr, _ := cmd.StderrPipe()
	stdout, _ := cmd.StdoutPipe()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	pv := &Preview{Cmd: cmd, Name: name}
	s.previews[name] = pv
	go s.pipeLines(name, stdout, onLine)
	go s.pipeLines(name, stderr, onLine)
	return pv, nil
}

func (s *Supervisor) pipeLines(name string, r io.ReadCloser, onLine func(string)) {
	defer r.Close()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.log("[%s] %s", name, line)
		if onLine != nil {
			onLine(line)
		}
	}
}

// StopAll terminates every supervised preview, escalating to Kill when a
// process ignores the interrupt.
func (s *Supervisor) StopAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for name, pv := range s.previews {
		if pv.Cmd.Process == nil {
			continue
		}
		s.log("stopping %s (pid=%d)", name, pv.Cmd.Process.Pid)
		if err := terminate(pv.Cmd); err != nil && first == nil {
			first = err
		}
	}
	waitCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	for name, pv := range s.previews {
		done := make(chan error, 1)
		go func(c *exec.Cmd) { done <- c.Wait() }(pv.Cmd)
		select {
		case <-waitCtx.Done():
			_ = pv.Cmd.Process.Kill()
		case <-done:
		}
		delete(s.previews, name)
		s.log("stopped %s", name)
	}
	return first
}

func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return errors.New("no process")
	}
	if runtime.GOOS == "windows" {
		return cmd.Process.Kill()
	}
	return cmd.Process.Signal(os.Interrupt)
}

// ShellCommand wraps an already-quoted command line for the platform shell,
// matching how the editor host runs the same string through a terminal
// buffer.
func ShellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("/bin/sh", "-c", command)
}

// BrowseURL extracts the preview server URL from an announcement line like
// "Browse at http://localhost:4200/". Returns "" for any other line.
func BrowseURL(line string) string {
	if !strings.Contains(line, "Browse at") && !strings.Contains(line, "Listening on") {
		return ""
	}
	return strings.TrimSuffix(FirstURL(line), "/")
}

// FirstURL returns the first http(s) URL embedded in s, or "".
func FirstURL(s string) string {
	i := strings.Index(s, "http")
	if i == -1 {
		return ""
	}
	seg := s[i:]
	if j := strings.IndexByte(seg, ' '); j != -1 {
		seg = seg[:j]
	}
	return strings.Trim(seg, "[]()<>\"'")
}
