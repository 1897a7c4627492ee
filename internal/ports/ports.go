package ports

import (
	"fmt"
	"net"
)

// FindFreePort asks the OS for an unused local TCP port. The standalone
// `preview --port 0` path hands the result to the preview tool so two
// previews never fight over a port.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("listen: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
