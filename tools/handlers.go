package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikigraph-mcp-server/internal/explorer"
	"github.com/olgasafonova/wikigraph-mcp-server/metrics"
	"github.com/olgasafonova/wikigraph-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	session *explorer.Session
	logger  *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(session *explorer.Session, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		session: session,
		logger:  logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "FetchPage":
		h.register(server, tool, spec, h.session.FetchPageMCP)
	case "ExpandNode":
		h.register(server, tool, spec, h.session.ExpandNodeMCP)
	case "GetLinks":
		h.register(server, tool, spec, h.session.GetLinksMCP)
	case "RandomPage":
		h.register(server, tool, spec, h.session.RandomPageMCP)
	case "ListLanguages":
		h.register(server, tool, spec, h.session.ListLanguagesMCP)
	case "GraphStats":
		h.register(server, tool, spec, h.session.GraphStatsMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the session method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (*mcp.CallToolResult, Result, error) {
		defer h.recoverPanic(spec.Name)

		// Start trace span
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		span.SetAttributes(
			attribute.String("mcp.tool.name", spec.Name),
			attribute.String("mcp.tool.category", spec.Category),
			attribute.Bool("mcp.tool.readonly", spec.ReadOnly),
		)

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			var zero Result
			return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return nil, result, nil
	})
}

// recoverPanic recovers from panics in tool handlers.
func (h *HandlerRegistry) recoverPanic(toolName string) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case explorer.FetchPageArgs:
		attrs = append(attrs, "page", a.Page)
	case explorer.ExpandNodeArgs:
		attrs = append(attrs, "pathinfo", a.Pathinfo)
	case explorer.GetLinksArgs:
		attrs = append(attrs, "page", a.Page)
	case explorer.RandomPageArgs:
		attrs = append(attrs, "fetch", a.Fetch)
	case explorer.ListLanguagesArgs:
		// No args to log
	case explorer.GraphStatsArgs:
		// No args to log
	}

	// Add extractable fields from result
	switch r := result.(type) {
	case explorer.FetchPageResult:
		attrs = append(attrs, "pathinfo", r.Pathinfo, "loaded", r.Loaded)
	case explorer.ExpandNodeResult:
		attrs = append(attrs, "created", len(r.Created), "nodes", r.Nodes, "edges", r.Edges)
	case explorer.GetLinksResult:
		attrs = append(attrs, "links", len(r.Links))
	case explorer.RandomPageResult:
		attrs = append(attrs, "pathinfo", r.Pathinfo)
	case explorer.ListLanguagesResult:
		attrs = append(attrs, "languages", len(r.Languages))
	case explorer.GraphStatsResult:
		attrs = append(attrs, "nodes", r.Nodes, "edges", r.Edges)
	}

	h.logger.Info("Tool executed", attrs...)
}

// Convenience function to call the generic register with method receiver
func (h *HandlerRegistry) register(server *mcp.Server, tool *mcp.Tool, spec ToolSpec, method any) {
	switch m := method.(type) {
	case func(context.Context, explorer.FetchPageArgs) (explorer.FetchPageResult, error):
		register(h, server, tool, spec, m)
	case func(context.Context, explorer.ExpandNodeArgs) (explorer.ExpandNodeResult, error):
		register(h, server, tool, spec, m)
	case func(context.Context, explorer.GetLinksArgs) (explorer.GetLinksResult, error):
		register(h, server, tool, spec, m)
	case func(context.Context, explorer.RandomPageArgs) (explorer.RandomPageResult, error):
		register(h, server, tool, spec, m)
	case func(context.Context, explorer.ListLanguagesArgs) (explorer.ListLanguagesResult, error):
		register(h, server, tool, spec, m)
	case func(context.Context, explorer.GraphStatsArgs) (explorer.GraphStatsResult, error):
		register(h, server, tool, spec, m)
	default:
		h.logger.Error("Unknown method type, tool not registered", "tool", spec.Name)
	}
}
