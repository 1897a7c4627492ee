package cloudflare

import (
	"os/exec"
	"strings"
	"sync"

	"quarto-preview/internal/proc"
)

// ShareTunnel starts `cloudflared tunnel --url <local>` under the supervisor
// and hands the public quick-tunnel address to onURL once it shows up in the
// tunnel's log output.
func ShareTunnel(sup *proc.Supervisor, localURL string, onURL func(string)) (*proc.Preview, error) {
	cmd := exec.Command("cloudflared", "tunnel", "--url", localURL)
	var once sync.Once
	return sup.Start("cloudflared", cmd, func(line string) {
		if u := PublicURL(line); u != "" && onURL != nil {
			once.Do(func() { onURL(u) })
		}
	})
}

// PublicURL returns the *.trycloudflare.com URL embedded in a cloudflared
// log line, or "" for any other line.
func PublicURL(line string) string {
	u := proc.FirstURL(line)
	if strings.Contains(u, ".trycloudflare.com") {
		return u
	}
	return ""
}
