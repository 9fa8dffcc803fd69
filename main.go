// Wikigraph MCP Server - A Model Context Protocol server for exploring
// Wikipedia as a graph. Articles become nodes, their internal links become
// edges, and tools grow the graph one expansion at a time.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikigraph-mcp-server/internal/explorer"
	"github.com/olgasafonova/wikigraph-mcp-server/tools"
	"github.com/olgasafonova/wikigraph-mcp-server/tracing"
	"github.com/olgasafonova/wikigraph-mcp-server/wiki"
)

const (
	ServerName    = "wikigraph-mcp-server"
	ServerVersion = "1.0.0"
)

func main() {
	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Load configuration from environment
	config, err := wiki.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize tracing
	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Tracing shutdown failed", "error", err)
		}
	}()

	// Create wiki client and exploration session
	client := wiki.NewClient(config, logger)
	session := explorer.NewSession(client, logger)
	defer session.Close()

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger: logger,
		Instructions: `Wikigraph MCP Server explores Wikipedia as a graph.

Available tools:
- wikigraph_fetch_page: Fetch an article into the exploration graph
- wikigraph_expand_node: Turn a node's outgoing links into neighbor nodes and edges
- wikigraph_get_links: List an article's outgoing links without touching the graph
- wikigraph_random_page: Draw a random main-namespace article
- wikigraph_list_languages: List supported Wikipedia language editions
- wikigraph_graph_stats: Report graph size and loaded-body counts

Configure via environment variables:
- WIKIGRAPH_LANGUAGE: Wikipedia edition code (default "en")
- WIKIGRAPH_TIMEOUT: fetch timeout as a Go duration (default "5s", "0" waits forever)
- WIKIGRAPH_REQUEST_KIND: "links" or "wikitext" (default "links")
- WIKIGRAPH_USER_AGENT: User-Agent override`,
	})

	// Register all tools
	registry := tools.NewHandlerRegistry(session, logger)
	registry.RegisterAll(server)

	// Run server on stdio transport
	logger.Info("Starting Wikigraph MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"language", config.Language.Code,
		"request_kind", config.Kind.String(),
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
