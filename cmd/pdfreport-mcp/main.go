// Command pdfreport-mcp is an MCP (Model Context Protocol) server that
// builds PDF reports from templates and JSON data sets.
//
// # Installation
//
//	go install github.com/lvillar/pdfreport/cmd/pdfreport-mcp@latest
//
// # Configuration
//
// Add the server to the MCP client configuration:
//
//	{
//	  "mcpServers": {
//	    "pdfreport": {
//	      "command": "pdfreport-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - build_report: Build a PDF from a template and section/datalist rows
//   - inspect_template: Describe the sections, contents and datalists of a template
//
// # Available Resources
//
//   - report://template?path=... : Template outline as JSON
//
// Set PDFREPORT_MCP_DEBUG=1 to log every request to stderr.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lvillar/pdfreport/mcp"
	"github.com/lvillar/pdfreport/observability"
)

func main() {
	server := mcp.NewServer()

	level := slog.LevelWarn
	if os.Getenv("PDFREPORT_MCP_DEBUG") != "" {
		level = slog.LevelDebug
	}
	server.SetLogger(observability.NewSlogLogger(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	))

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "pdfreport-mcp: %v\n", err)
		stop()
		os.Exit(1)
	}
}
