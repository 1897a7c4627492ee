package preview

import (
	"strings"
	"testing"
)

func TestBuildCommandFileQuoting(t *testing.T) {
	path := "/tmp/a b.qmd"

	win := BuildCommand(ModeFile, "quarto", path, "", "windows")
	if !strings.Contains(win, `"`+path+`"`) {
		t.Fatalf("expected double-quoted path on windows, got %q", win)
	}
	lin := BuildCommand(ModeFile, "quarto", path, "", "linux")
	if !strings.Contains(lin, "'"+path+"'") {
		t.Fatalf("expected single-quoted path on linux, got %q", lin)
	}
}

func TestBuildCommandProjectOmitsPath(t *testing.T) {
	path := "/somewhere/report.qmd"
	for _, goos := range []string{"linux", "darwin", "windows"} {
		got := BuildCommand(ModeProject, "quarto", path, "--foo", goos)
		if strings.Contains(got, path) {
			t.Fatalf("project command must not embed the path: %q", got)
		}
		if !strings.HasPrefix(got, "quarto preview ") {
			t.Fatalf("unexpected command prefix: %q", got)
		}
		if !strings.Contains(got, "--foo") {
			t.Fatalf("extra args dropped: %q", got)
		}
	}
}

func TestBuildCommandPassesArgsVerbatim(t *testing.T) {
	got := BuildCommand(ModeFile, "quarto", "/d/x.qmd", "--port 7780 --no-browser", "linux")
	if !strings.HasSuffix(got, " --port 7780 --no-browser") {
		t.Fatalf("expected verbatim args suffix, got %q", got)
	}
}
