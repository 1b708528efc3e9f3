//go:build linux

package ipc

import (
	"os/exec"
	"syscall"
)

// setProcAttrs arranges for the child to receive SIGKILL if the driver
// dies before reaping it.
func setProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
