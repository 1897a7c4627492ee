package preview

// Mode selects how the preview tool is invoked.
type Mode int

const (
	// ModeFile previews a single document; the command embeds its path.
	ModeFile Mode = iota
	// ModeProject previews a whole project; the tool finds the root
	// itself, so the command carries no path.
	ModeProject
)

func (m Mode) String() string {
	if m == ModeProject {
		return "project"
	}
	return "file"
}

// BuildCommand constructs the shell invocation for the preview subprocess.
// In file mode the path is quoted with double quotes on Windows and single
// quotes elsewhere. extraArgs is appended verbatim; it is a user-supplied
// passthrough and is not sanitized here.
func BuildCommand(mode Mode, tool, path, extraArgs, goos string) string {
	if mode == ModeProject {
		return tool + " preview " + extraArgs
	}
	quote := "'"
	if goos == "windows" {
		quote = `"`
	}
	return tool + " preview " + quote + path + quote + " " + extraArgs
}
