package cloudflare

import "testing"

func TestPublicURL(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"2026-08-31T10:00:00Z INF |  https://wobbly-otter-1234.trycloudflare.com  |", "https://wobbly-otter-1234.trycloudflare.com"},
		{"INF Starting tunnel tunnelID=deadbeef", ""},
		{"Browse at http://localhost:4200/", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := PublicURL(c.line); got != c.want {
			t.Fatalf("PublicURL(%q) = %q, want %q", c.line, got, c.want)
		}
	}
}
