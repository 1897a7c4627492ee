package proc

import "testing"

func TestBrowseURL(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"Browse at http://localhost:4200/", "http://localhost:4200"},
		{"  Browse at https://example.com/docs/", "https://example.com/docs"},
		{"Listening on http://127.0.0.1:7780", "http://127.0.0.1:7780"},
		{"Watching files for changes", ""},
		{"GET: /index.html", ""},
	}
	for _, c := range cases {
		if got := BrowseURL(c.line); got != c.want {
			t.Fatalf("BrowseURL(%q) = %q, want %q", c.line, got, c.want)
		}
	}
}

func TestFirstURL(t *testing.T) {
	if got := FirstURL("see (http://a.example) now"); got != "http://a.example" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := FirstURL("nothing here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
