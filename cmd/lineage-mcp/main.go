// Command lineage-mcp is the file-service entrypoint: an MCP stdio tool
// server exposing the nine tools of spec §4.6 against one base directory.
//
// Usage: lineage-mcp [baseDirectory]
//
// First positional argument sets the base directory; defaults to /data
// per spec §6. Three optional flags are defined: --client-name, a
// supplemented convenience for environments where the MCP handshake
// doesn't surface a usable clientInfo.name; --log-dir, the directory for
// rotated log files (logging is discarded when it is empty); and --debug,
// which sets the log level to debug.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lineage-mcp/lineage-mcp/internal/changedetect"
	"github.com/lineage-mcp/lineage-mcp/internal/config"
	"github.com/lineage-mcp/lineage-mcp/internal/instructions"
	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/mcpserver"
	"github.com/lineage-mcp/lineage-mcp/internal/pathguard"
	"github.com/lineage-mcp/lineage-mcp/internal/session"
	"github.com/lineage-mcp/lineage-mcp/internal/tools"
	"github.com/lineage-mcp/lineage-mcp/internal/trayclient"
)

const defaultBaseDir = "/data"

func main() {
	fs := flag.NewFlagSet("lineage-mcp", flag.ExitOnError)
	clientName := fs.String("client-name", "", "override the MCP client name used for per-client config/tray labeling")
	logDir := fs.String("log-dir", "", "directory for rotated log files (stdout/stderr are reserved for MCP framing)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[1:])

	baseDir := defaultBaseDir
	if fs.NArg() > 0 {
		baseDir = fs.Arg(0)
	}
	absBaseDir, err := filepath.Abs(baseDir)
	if err == nil {
		baseDir = absBaseDir
	}

	level := "info"
	if *debug {
		level = "debug"
	}
	logging.Init(logging.Config{LogDir: *logDir, Level: level})
	defer logging.Shutdown()
	log := logging.ForComponent(logging.CompTools)

	cfg := config.Load(baseDir)

	guard, err := pathguard.New(baseDir, cfg.AllowFullPaths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lineage-mcp: %v\n", err)
		os.Exit(1)
	}

	cooldown := time.Duration(cfg.NewSessionCooldownSecs * float64(time.Second))
	state := session.New(cooldown)
	detector := changedetect.New(state)
	resolver := instructions.New(baseDir, cfg.InstructionFileNames, state)

	sessionID := trayclient.NewSessionID()
	tray := trayclient.New(sessionID, baseDir, trayclient.DefaultDialer(), state)
	if trayclient.EnsureTrayRunning(trayBinaryPath()) {
		tray.Connect()
	}
	defer tray.Disconnect()

	handlers := tools.New(guard, state, detector, resolver, cfg, tray, *clientName)

	srv := mcp.NewServer(&mcp.Implementation{Name: "lineage-mcp", Version: "1.0.0"}, nil)
	mcpserver.Register(srv, handlers)

	log.Info("starting", "baseDir", baseDir)
	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Error("server_exited", "error", err)
		os.Exit(1)
	}
}

// trayBinaryPath assumes the tray binary is installed alongside this one,
// the same layout convention the teacher's launch_cmd.go uses for its
// sibling binaries.
func trayBinaryPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "lineage-mcp-tray"
	}
	return filepath.Join(filepath.Dir(exe), "lineage-mcp-tray")
}
