//go:build windows

package launch

import (
	"os/exec"
	"syscall"
)

// detach starts the child in a new process group with no console window,
// the Windows equivalent of a detached session.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
