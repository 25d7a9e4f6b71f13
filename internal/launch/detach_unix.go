//go:build !windows

package launch

import (
	"os/exec"
	"syscall"
)

// detach places the child in its own session on Unix. The child gets a new
// session id, loses the launcher's controlling terminal, and is not part of
// the launcher's process group — Ctrl-C in the launcher's terminal never
// reaches the stack.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
