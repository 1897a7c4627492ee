package preview

import (
	"errors"
	"fmt"
)

// ErrNotInFile is returned when a file-mode launch is requested for a
// context that has no resolvable file identity (unsaved buffer, no
// extension segment).
var ErrNotInFile = errors.New("not in a file")

// UnsupportedTypeError is returned when the context's extension is not in
// the supported set.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q", e.Ext)
}

// LaunchError wraps a host failure to create the preview surface.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start preview: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
