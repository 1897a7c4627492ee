package preview

// ContextID identifies one open document buffer in the editor host.
type ContextID int

// SurfaceID identifies a display surface created for a running preview
// subprocess (a terminal buffer in the Neovim host).
type SurfaceID int

// FocusID is an opaque focus pointer (a window in the Neovim host). It is
// distinct from SurfaceID so that "spawn the terminal" and "go back to where
// the user was" stay two independent host calls.
type FocusID int

// Level is the severity of a user-facing message.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

// Subscription is a cancellable lifecycle-signal registration. Cancel after
// the signal fired is a no-op.
type Subscription interface {
	Cancel()
}

// Host is the editor collaborator the manager drives. The production
// implementation lives in internal/nvimhost; tests inject a fake.
type Host interface {
	// ContextPath returns the filesystem path of the document in ctx.
	// Empty for an unsaved buffer.
	ContextPath(ctx ContextID) (string, error)

	// Focused returns the current focus pointer, Focus moves it back.
	Focused() (FocusID, error)
	Focus(f FocusID) error

	// OpenTerminal creates a new surface running command as a subprocess
	// and leaves it focused. It either returns a usable surface or an
	// error with nothing created.
	OpenTerminal(command string) (SurfaceID, error)

	// Live reports whether id still refers to a loaded surface.
	Live(id SurfaceID) bool

	// Destroy tears down a surface. Destroying an already-gone surface is
	// not an error.
	Destroy(id SurfaceID, force bool) error

	// OnClose registers a one-shot observer fired when the host is about
	// to quit or the window showing ctx is closed. A second registration
	// for the same ctx replaces the first.
	OnClose(ctx ContextID, fn func()) Subscription

	// Notify reports a user-facing message.
	Notify(level Level, msg string)

	// OS returns the host operating system family ("windows" or other),
	// used only to pick the shell quoting style.
	OS() string
}
