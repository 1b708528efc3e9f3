//go:build !linux

package ipc

import "os/exec"

// setProcAttrs is a no-op on platforms without parent-death signals; the
// child is still killed when the endpoint closes.
func setProcAttrs(cmd *exec.Cmd) {}
