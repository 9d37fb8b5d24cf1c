// Command lineage-mcp-tray is the tray daemon entrypoint: a Bubble Tea
// terminal shell (internal/trayui) plus the read-only HTTP+WS dashboard
// (internal/trayweb), both fed by the Tray Pipe Server (internal/traypipe)
// and the Tray Session Store (internal/traystore).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lineage-mcp/lineage-mcp/internal/logging"
	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
	"github.com/lineage-mcp/lineage-mcp/internal/trayui"
	"github.com/lineage-mcp/lineage-mcp/internal/trayweb"
	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

func main() {
	fs := flag.NewFlagSet("lineage-mcp-tray", flag.ExitOnError)
	webAddr := fs.String("web-addr", "", "listen address for the read-only dashboard; empty disables it")
	webToken := fs.String("web-token", "", "bearer/query token required by the dashboard; empty disables auth")
	stateDir := fs.String("state-dir", defaultStateDir(), "directory for the compaction audit log and logs")
	debug := fs.Bool("debug", false, "enable debug logging")
	headless := fs.Bool("headless", false, "run the pipe/web servers without the terminal UI (for supervised deployments)")
	_ = fs.Parse(os.Args[1:])

	level := "info"
	if *debug {
		level = "debug"
	}
	logging.Init(logging.Config{LogDir: filepath.Join(*stateDir, "logs"), Level: level})
	defer logging.Shutdown()
	log := logging.ForComponent(logging.CompTrayPipe)

	store := traystore.New()
	msgLog := traystore.NewMessageLog(traystore.DefaultLogCapacity)

	auditLog, err := traystore.OpenAuditLog(filepath.Join(*stateDir, "compactions.db"))
	if err != nil {
		log.Warn("audit_log_disabled", slog.String("error", err.Error()))
		auditLog = nil
	} else {
		defer auditLog.Close()
	}

	listener, err := traypipe.Listen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lineage-mcp-tray: %v\n", err)
		os.Exit(1)
	}

	pipeServer := traypipe.NewServer(listener, store)
	pipeServer.SetLogger(msgLog)
	if auditLog != nil {
		pipeServer.SetCompactionRecorder(traystore.NewCompactor(store, auditLog))
	}

	go func() {
		if err := pipeServer.Serve(); err != nil {
			log.Error("pipe_server_exited", slog.String("error", err.Error()))
		}
	}()
	defer pipeServer.Close()

	if *webAddr != "" {
		webServer := trayweb.NewServer(trayweb.Config{ListenAddr: *webAddr, Token: *webToken}, store, msgLog, auditLog)
		go func() {
			if err := webServer.Start(); err != nil {
				logging.ForComponent(logging.CompTrayWeb).Error("web_server_error", slog.String("error", err.Error()))
			}
		}()
		fmt.Printf("Dashboard: http://%s\n", webServer.Addr())
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = webServer.Shutdown(ctx)
		}()
	}

	if *headless {
		select {}
	}

	model := trayui.New(store, msgLog, auditLog, pipeServer)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".lineage-mcp")
	}
	return ".lineage-mcp"
}
