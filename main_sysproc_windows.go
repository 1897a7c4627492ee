//go:build windows

package main

import (
	"fmt"
	"os/exec"
	"syscall"

	winapi "golang.org/x/sys/windows"
)

// newSysProcAttrForGroup creates a new process group so taskkill /T can
// terminate the entire preview tree.
func newSysProcAttrForGroup() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: winapi.CREATE_NEW_PROCESS_GROUP}
}

func killProcessGroup(pid int) error {
	if pid <= 0 {
		return nil
	}
	return exec.Command("taskkill", "/PID", fmt.Sprint(pid), "/T", "/F").Run()
}
