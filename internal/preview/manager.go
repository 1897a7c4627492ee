package preview

import (
	"quarto-preview/internal/config"
)

// session is the per-context record binding a document context to its
// preview surface. At most one surface is bound at a time; a relaunch
// overwrites the binding without closing the prior surface.
type session struct {
	surface SurfaceID
	sub     Subscription
}

// Manager owns the preview session lifecycle: mode detection, command
// construction, subprocess launch in a host surface, and the binding that
// lets the preview be found and torn down later. All methods run on the
// host's event loop; there is no locking.
type Manager struct {
	host     Host
	cfg      *config.Config
	sessions map[ContextID]*session
}

// NewManager builds a manager around a host. cfg may be nil, in which case
// defaults apply and no auto-close observers are attached.
func NewManager(host Host, cfg *config.Config) *Manager {
	return &Manager{
		host:     host,
		cfg:      cfg,
		sessions: map[ContextID]*session{},
	}
}

// Launch starts (or restarts) a preview for ctx. extraArgs is appended
// verbatim to the tool invocation. On success the new surface is bound to
// ctx and focus is back on the originating context. On error nothing was
// created, bound, or registered.
func (m *Manager) Launch(ctx ContextID, extraArgs string) (SurfaceID, error) {
	path, err := m.host.ContextPath(ctx)
	if err != nil {
		path = ""
	}

	mode := ModeFile
	if _, ok := ProjectRoot(path, m.cfg.Marker()); ok {
		mode = ModeProject
	}
	if mode == ModeFile {
		ext := Ext(path)
		if ext == "" {
			return 0, ErrNotInFile
		}
		if !SupportedExt(ext, m.cfg.Exts()) {
			return 0, &UnsupportedTypeError{Ext: ext}
		}
	}

	command := BuildCommand(mode, m.cfg.Tool(), path, m.cfg.Args(extraArgs), m.host.OS())

	origin, originErr := m.host.Focused()
	id, err := m.host.OpenTerminal(command)
	if err != nil {
		return 0, &LaunchError{Err: err}
	}
	// The preview opens alongside the document, not in its place.
	if originErr == nil {
		_ = m.host.Focus(origin)
	}

	s := m.sessions[ctx]
	if s == nil {
		s = &session{}
		m.sessions[ctx] = s
	}
	// A fresh launch must not accumulate teardown triggers: drop the old
	// observer before binding the new surface. The old surface itself is
	// deliberately left alone.
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.surface = id

	if m.cfg.AutoClose() {
		surface := id // captured by value at attach time
		s.sub = m.host.OnClose(ctx, func() {
			s.sub = nil
			if m.host.Live(surface) {
				_ = m.host.Destroy(surface, true)
			}
		})
	}
	return id, nil
}

// Close destroys the preview surface bound to ctx, if any. It returns true
// only when a live surface was actually destroyed; calling it with nothing
// open is expected usage, not an error.
func (m *Manager) Close(ctx ContextID) bool {
	s := m.sessions[ctx]
	if s == nil {
		return false
	}
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	delete(m.sessions, ctx)
	if !m.host.Live(s.surface) {
		return false
	}
	_ = m.host.Destroy(s.surface, true)
	return true
}

// Surface returns the surface currently bound to ctx.
func (m *Manager) Surface(ctx ContextID) (SurfaceID, bool) {
	s := m.sessions[ctx]
	if s == nil {
		return 0, false
	}
	return s.surface, true
}

// Forget drops the session record for a context that is going away without
// its close signal having fired, cancelling any pending observer. The
// surface is not touched.
func (m *Manager) Forget(ctx ContextID) {
	s := m.sessions[ctx]
	if s == nil {
		return
	}
	if s.sub != nil {
		s.sub.Cancel()
	}
	delete(m.sessions, ctx)
}
