package httpx

import (
	"fmt"
	"net/http"
	"time"
)

// WaitHTTPUp polls url until it answers with a non-5xx status or the
// timeout passes. Used to hold off reporting a preview URL until the
// server behind it actually serves.
func WaitHTTPUp(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for %s", url)
		}
		resp, err := http.Get(url) // #nosec G107
		if err == nil && resp.StatusCode < 500 {
			resp.Body.Close()
			return nil
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		time.Sleep(300 * time.Millisecond)
	}
}
