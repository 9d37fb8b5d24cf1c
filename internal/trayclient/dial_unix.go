//go:build !windows

package trayclient

import (
	"net"
	"os/exec"
	"syscall"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

func dialTray() (net.Conn, error) {
	return net.Dial("unix", traypipe.SocketPath())
}

// configureDetached puts the tray process in its own session/process
// group so it outlives the launching file-service and isn't killed
// along with it, mirroring the original's close_fds=True Popen on
// POSIX (no console to detach from, unlike Windows).
func configureDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
