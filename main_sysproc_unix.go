//go:build !windows

package main

import (
	"syscall"
	"time"
)

// newSysProcAttrForGroup puts the preview subprocess in its own process
// group so the whole tree (shell, tool, its server) dies together.
func newSysProcAttrForGroup() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	time.Sleep(800 * time.Millisecond)
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return nil
}
