// Command lineage-mcp-hook is the Hook Client of spec §4.10: a short-lived
// process an AI assistant's PreCompact hook invokes on every compaction.
//
// Usage: lineage-mcp-hook <client-name>
//
// Reads a JSON hook payload from stdin, asks the tray to clear caches for
// sessions under the current working directory, and exits. Connection
// failure is a silent no-op, per spec §4.10 — the assistant's compaction
// must never be blocked or failed by the hook.
//
// A supplemented "install" subcommand (not part of the original hook
// script, grounded on the AI client's own settings.json hook schema) adds
// this binary as a PreCompact hook entry in a client's settings file:
//
//	lineage-mcp-hook install --settings-path <path> --client-name <name>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lineage-mcp/lineage-mcp/internal/hookclient"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "install" {
		runInstall(os.Args[2:])
		return
	}
	runHook(os.Args[1:])
}

func runHook(args []string) {
	fs := flag.NewFlagSet("lineage-mcp-hook", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	_ = fs.Parse(args)

	clientName := ""
	if fs.NArg() > 0 {
		clientName = fs.Arg(0)
	}

	result := hookclient.Run(os.Stdin, clientName, hookclient.DefaultDialer())
	if result.Connected {
		fmt.Printf("lineage-mcp-hook: cleared %d session(s)\n", result.SessionsCleared)
	}
	os.Exit(0)
}

func runInstall(args []string) {
	fs := flag.NewFlagSet("lineage-mcp-hook install", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	settingsPath := fs.String("settings-path", "", "path to the AI client's settings.json (required)")
	clientName := fs.String("client-name", "", "client name passed as this hook's argument (required)")
	hookPath := fs.String("hook-path", "", "path to this binary as the client should invoke it; defaults to the running executable's path")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *settingsPath == "" || *clientName == "" {
		fmt.Fprintln(os.Stderr, "lineage-mcp-hook install: --settings-path and --client-name are required")
		os.Exit(1)
	}

	binaryPath := *hookPath
	if binaryPath == "" {
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lineage-mcp-hook install: resolve executable path: %v\n", err)
			os.Exit(1)
		}
		binaryPath = exe
	}

	installed, err := hookclient.Install(*settingsPath, binaryPath, *clientName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lineage-mcp-hook install: %v\n", err)
		os.Exit(1)
	}
	if installed {
		fmt.Printf("lineage-mcp-hook: installed PreCompact hook in %s\n", *settingsPath)
	} else {
		fmt.Printf("lineage-mcp-hook: PreCompact hook already present in %s\n", *settingsPath)
	}
	os.Exit(0)
}
