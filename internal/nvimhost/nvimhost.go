// Package nvimhost implements the preview host contract on top of a Neovim
// instance reached over msgpack-RPC. Contexts are buffers, surfaces are
// terminal buffers, the focus pointer is a window.
package nvimhost

import (
	"fmt"
	"runtime"

	"github.com/neovim/go-client/nvim"

	"quarto-preview/internal/preview"
)

// vim.log.levels values for nvim_notify.
const (
	logInfo  nvim.LogLevel = 2
	logWarn  nvim.LogLevel = 3
	logError nvim.LogLevel = 4
)

type Host struct {
	nv *nvim.Nvim

	// One pending close observer per context; a re-attach replaces the
	// prior entry. Everything runs on the plugin's RPC loop.
	subs map[preview.ContextID]*subscription

	isWindows *bool // platform probe, cached after first answer
}

func New(nv *nvim.Nvim) *Host {
	return &Host{
		nv:   nv,
		subs: map[preview.ContextID]*subscription{},
	}
}

var _ preview.Host = (*Host)(nil)

func (h *Host) ContextPath(ctx preview.ContextID) (string, error) {
	name, err := h.nv.BufferName(nvim.Buffer(ctx))
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}
	// Buffer names may be relative to the editor's cwd; the marker search
	// wants the full ancestor chain.
	var abs string
	if err := h.nv.Call("fnamemodify", &abs, name, ":p"); err != nil {
		return name, nil
	}
	return abs, nil
}

func (h *Host) Focused() (preview.FocusID, error) {
	w, err := h.nv.CurrentWindow()
	return preview.FocusID(w), err
}

func (h *Host) Focus(f preview.FocusID) error {
	return h.nv.SetCurrentWindow(nvim.Window(f))
}

// OpenTerminal opens a split below the current window and runs command in a
// terminal buffer there. On failure the split is wiped so nothing is left
// behind.
func (h *Host) OpenTerminal(command string) (preview.SurfaceID, error) {
	if err := h.nv.Command("belowright 15new"); err != nil {
		return 0, err
	}
	var job int
	if err := h.nv.Call("termopen", &job, command); err != nil {
		_ = h.nv.Command("bwipeout!")
		return 0, err
	}
	if job <= 0 {
		_ = h.nv.Command("bwipeout!")
		return 0, fmt.Errorf("termopen returned %d", job)
	}
	buf, err := h.nv.CurrentBuffer()
	if err != nil {
		return 0, err
	}
	return preview.SurfaceID(buf), nil
}

func (h *Host) Live(id preview.SurfaceID) bool {
	loaded, err := h.nv.IsBufferLoaded(nvim.Buffer(id))
	return err == nil && loaded
}

func (h *Host) Destroy(id preview.SurfaceID, force bool) error {
	return h.nv.DeleteBuffer(nvim.Buffer(id), map[string]bool{"force": force})
}

func (h *Host) Notify(level preview.Level, msg string) {
	ll := logInfo
	switch level {
	case preview.Warn:
		ll = logWarn
	case preview.Error:
		ll = logError
	}
	if err := h.nv.Notify(msg, ll, map[string]interface{}{}); err != nil {
		_ = h.nv.WriteErr(msg + "\n")
	}
}

func (h *Host) OS() string {
	if h.isWindows == nil {
		var win int
		if err := h.nv.Eval("has('win32')", &win); err != nil {
			// Remote editors are rare; the plugin process is a fair proxy.
			return runtime.GOOS
		}
		w := win == 1
		h.isWindows = &w
	}
	if *h.isWindows {
		return "windows"
	}
	return runtime.GOOS
}

// ===== lifecycle signals =====

type subscription struct {
	host *Host
	ctx  preview.ContextID
	fn   func()
}

func (s *subscription) Cancel() {
	if s.host.subs[s.ctx] == s {
		delete(s.host.subs, s.ctx)
	}
}

func (h *Host) OnClose(ctx preview.ContextID, fn func()) preview.Subscription {
	s := &subscription{host: h, ctx: ctx, fn: fn}
	h.subs[ctx] = s
	return s
}

// fireContext delivers the close signal for one context. Observers are
// one-shot: the registration is gone before the callback runs.
func (h *Host) fireContext(ctx preview.ContextID) {
	s := h.subs[ctx]
	if s == nil {
		return
	}
	delete(h.subs, ctx)
	s.fn()
}

// fireAll delivers the quit-pending signal to every registered observer.
func (h *Host) fireAll() {
	pending := make([]*subscription, 0, len(h.subs))
	for _, s := range h.subs {
		pending = append(pending, s)
	}
	h.subs = map[preview.ContextID]*subscription{}
	for _, s := range pending {
		s.fn()
	}
}
