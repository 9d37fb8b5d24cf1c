//go:build windows

package trayclient

import (
	"net"
	"os/exec"
	"syscall"

	"github.com/Microsoft/go-winio"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
)

func dialTray() (net.Conn, error) {
	return winio.DialPipe(traypipe.PipeName, nil)
}

// configureDetached mirrors the original's DETACHED_PROCESS |
// CREATE_NO_WINDOW creation flags so the tray doesn't pop a console
// window when auto-launched from an MCP file-service.
func configureDetached(cmd *exec.Cmd) {
	const detachedProcess = 0x00000008
	const createNoWindow = 0x08000000
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: detachedProcess | createNoWindow}
}
