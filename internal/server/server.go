package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/localrivet/gomcp/server"

	"github.com/localrivet/condense/internal/budget"
	"github.com/localrivet/condense/internal/errortypes"
	"github.com/localrivet/condense/internal/summarizer"
	"github.com/localrivet/condense/internal/telemetry"
	"github.com/localrivet/condense/internal/tokenizer"
	"github.com/localrivet/condense/internal/tools"
)

// Common server error types
var (
	ErrServerNotInitialized = errors.New("server not initialized")
	ErrMissingDependencies  = errors.New("one or more required dependencies are nil")
)

// Options holds the collaborators and run parameters for the tool server.
type Options struct {
	Engine      summarizer.Summarizer
	Counter     tokenizer.Counter
	Usage       *telemetry.UsageAccumulator
	Metrics     *telemetry.MetricsCollector
	ContextSize int
	Boundary    string
	Model       string
}

// MCPCondenseToolServer implements the CondenseToolServer interface
// for handling MCP tool calls related to document condensing.
type MCPCondenseToolServer struct {
	opts      Options
	mcpServer server.Server
}

// NewCondenseToolServer creates a new MCPCondenseToolServer instance.
func NewCondenseToolServer(opts Options) *MCPCondenseToolServer {
	return &MCPCondenseToolServer{opts: opts}
}

// Initialize initializes the server with dependencies and configurations.
func (s *MCPCondenseToolServer) Initialize() error {
	slog.Info("Initializing MCP Condense Tool Server")

	if s.opts.Engine == nil || s.opts.Counter == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	// Create the MCP server
	srv := server.NewServer("condense")

	// Register condense_text tool
	srv = srv.Tool(tools.ToolCondenseText, "Recursively condense a document into a token-budgeted summary",
		s.handleCondenseText)

	// Register condense_usage tool
	srv = srv.Tool(tools.ToolCondenseUsage, "Report accumulated token usage and engine metrics",
		s.handleCondenseUsage)

	s.mcpServer = srv
	slog.Info("MCP Condense Tool Server initialized successfully", "tool_count", 2)
	return nil
}

// Start starts the MCP server on the specified transport.
func (s *MCPCondenseToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	slog.Info("Starting MCP Condense Tool Server")

	// Start the server using stdio transport
	stdioServer := s.mcpServer.AsStdio()
	return stdioServer.Run()
}

// Stop gracefully shuts down the MCP server.
func (s *MCPCondenseToolServer) Stop() error {
	slog.Info("Stopping MCP Condense Tool Server")
	// The server will exit when stdin is closed
	return nil
}

// handleCondenseText handles the condense_text MCP tool call.
func (s *MCPCondenseToolServer) handleCondenseText(ctx *server.Context, req tools.CondenseTextRequest) (tools.CondenseTextResponse, error) {
	slog.Info("Processing condense_text request", "text_length", len(req.Text))

	response := tools.CondenseTextResponse{
		Status: "success",
	}

	targetSize := req.TargetSize
	if targetSize <= 0 {
		targetSize = tools.DefaultTargetSize
		slog.Debug("Using default target size for condense_text", "target_size", targetSize)
	}

	params, err := budget.Compute(targetSize, s.opts.ContextSize, s.opts.Counter)
	if err != nil {
		err = errortypes.BudgetError(err, "failed to compute summarization budget").
			WithField("target_size", targetSize).
			WithField("context_size", s.opts.ContextSize)
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	summary, err := s.opts.Engine.Summarize(context.Background(), req.Text, params, s.opts.Boundary, s.opts.Model)
	if err != nil {
		err = errortypes.CallFailedError(err, "failed to condense text").
			WithField("text_length", len(req.Text))
		errortypes.LogError(nil, err)

		response.Status = "error"
		response.Error = err.Error()
		return response, nil
	}

	response.Summary = summary
	response.InputTokens = s.opts.Counter.Count(req.Text)
	response.SummaryTokens = s.opts.Counter.Count(summary)
	slog.Info("Successfully condensed text",
		"input_tokens", response.InputTokens, "summary_tokens", response.SummaryTokens)

	return response, nil
}

// handleCondenseUsage handles the condense_usage MCP tool call.
func (s *MCPCondenseToolServer) handleCondenseUsage(ctx *server.Context, req tools.CondenseUsageRequest) (tools.CondenseUsageResponse, error) {
	slog.Info("Processing condense_usage request")

	response := tools.CondenseUsageResponse{
		Status: "success",
	}

	if s.opts.Usage != nil {
		usage := s.opts.Usage.Snapshot()
		response.PromptTokens = usage.PromptTokens
		response.CompletionTokens = usage.CompletionTokens
		response.TotalTokens = usage.TotalTokens
	}
	if s.opts.Metrics != nil {
		response.Report = s.opts.Metrics.GetReport()
	}

	return response, nil
}
