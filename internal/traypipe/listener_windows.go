//go:build windows

package traypipe

import (
	"net"

	"github.com/Microsoft/go-winio"
)

// PipeName is the named pipe path spec §6 fixes for Windows.
const PipeName = `\\.\pipe\lineage-mcp-tray`

// Listen binds the platform-local rendezvous point: a Windows named pipe.
func Listen() (net.Listener, error) {
	return winio.ListenPipe(PipeName, &winio.PipeConfig{
		SecurityDescriptor: "D:P(A;;GA;;;AU)",
		MessageMode:        false,
	})
}
