// Package mcpserver is the thin adapter between the MCP tool-dispatch
// runtime and internal/tools: it is the only place in the file-service
// that touches stdin/stdout framing. Spec §6 explicitly leaves the MCP
// wire protocol itself out of scope ("this spec does not redefine that
// protocol"), so this package wires internal/tools' nine handlers to the
// real ecosystem MCP SDK instead of hand-rolling JSON-RPC framing.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lineage-mcp/lineage-mcp/internal/tools"
)

// toolResult is the shared output shape: every handler in internal/tools
// already renders its own human-readable response string (including
// trailers for changed-file/instruction/debug info per spec §4.6), so
// the MCP layer has nothing to add beyond wrapping it as text content.
type toolResult struct{}

func textResult(s string) (*mcp.CallToolResult, toolResult, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: s}},
	}, toolResult{}, nil
}

// Register attaches every lineage-mcp tool to srv, delegating each call
// to the matching internal/tools.Handlers method.
func Register(srv *mcp.Server, h *tools.Handlers) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "read",
		Description: "Read a file, optionally paginated by cursor or offset/limit.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in readInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Read(in.Path, in.toOptions()))
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "write",
		Description: "Write content to a file, creating it or any missing parent directories.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in writeInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Write(in.Path, in.Content, in.NewSession))
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "edit",
		Description: "Replace an exact string occurrence in a file.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in editInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Edit(in.Path, in.OldString, in.NewString, in.ReplaceAll, in.NewSession))
	})

	// multi_edit/multi_read are registered only when their config flag is
	// on (spec.md:229: "Whether these tools are registered") — unlike the
	// other seven tools, which are always available.
	if h.Config.EnableMultiEdit {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        "multi_edit",
			Description: "Apply several independent edits to a file in one call.",
		}, func(ctx context.Context, req *mcp.CallToolRequest, in multiEditInput) (*mcp.CallToolResult, toolResult, error) {
			return textResult(h.MultiEdit(in.toEditSpecs(), in.NewSession))
		})
	}

	if h.Config.EnableMultiRead {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        "multi_read",
			Description: "Read up to several files in one call.",
		}, func(ctx context.Context, req *mcp.CallToolRequest, in multiReadInput) (*mcp.CallToolResult, toolResult, error) {
			return textResult(h.MultiRead(in.Paths, in.ShowLineNumbers, in.NewSession))
		})
	}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete",
		Description: "Delete a file.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in deleteInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Delete(in.Path, in.NewSession))
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list",
		Description: "List directory contents.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in listInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.List(in.Path, in.NewSession))
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search",
		Description: "Search for a pattern across files under a directory.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Search(in.Pattern, in.Path, in.NewSession))
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "clear",
		Description: "Clear tracked change-detection and instruction state for this session.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, toolResult, error) {
		return textResult(h.Clear())
	})
}
