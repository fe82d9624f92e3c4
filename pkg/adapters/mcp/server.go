package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/internal/validator"
	httpAdapter "github.com/aretw0/senglish/pkg/adapters/http"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/dsl"
	"github.com/aretw0/senglish/pkg/runner"
	"github.com/aretw0/senglish/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSession is used when a tool call omits session_id.
const DefaultSession = "default"

// ExecuteResponse aligns with the HTTP API and provides a unified structure across adapters.
type ExecuteResponse struct {
	OK       bool             `json:"ok" jsonschema_description:"True when every segment succeeded"`
	Segments []string         `json:"segments" jsonschema_description:"The segments the chain was split into"`
	Outcomes []domain.Outcome `json:"outcomes" jsonschema_description:"Per-segment results in order"`
}

// SegmentResponse lists the segments of a chain without running it.
type SegmentResponse struct {
	Segments []string `json:"segments" jsonschema_description:"Top-level segments of the chain"`
}

// ValidateResponse reports the problems found in a chain without running it.
type ValidateResponse struct {
	Valid  bool              `json:"valid" jsonschema_description:"True when no issue was found"`
	Issues []validator.Issue `json:"issues" jsonschema_description:"Problems by top-level segment"`
}

// Server wraps a session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
	maxInput  int
}

// Option configures the Server.
type Option func(*Server)

// WithMaxInputSize overrides the instruction size limit of the execute tool.
// Zero keeps the environment or package default.
func WithMaxInputSize(limit int) Option {
	return func(s *Server) {
		s.maxInput = limit
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		logger:    logger,
		mcpServer: server.NewMCPServer("senglish-mcp", strings.TrimSpace(senglish.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	return httpAdapter.ListenAndServe(ctx, addr, mux, s.logger)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: execute
	executeTool := mcp.NewTool("execute",
		mcp.WithDescription("Run a ScriptEnglish instruction chain. Segments are separated by '..' and run in order."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The instruction chain")),
		mcp.WithString("session_id", mcp.Description("Session to run in (optional)")),
		mcp.WithOutputSchema[ExecuteResponse](),
	)
	s.mcpServer.AddTool(executeTool, mcp.NewStructuredToolHandler(s.handleExecute))

	// TOOL: segment
	segmentTool := mcp.NewTool("segment",
		mcp.WithDescription("Split an instruction chain into top-level segments without running it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The instruction chain")),
		mcp.WithOutputSchema[SegmentResponse](),
	)
	s.mcpServer.AddTool(segmentTool, mcp.NewStructuredToolHandler(s.handleSegment))

	// TOOL: validate
	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Check a chain for unknown commands, unclosed blocks and quotes without running it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The instruction chain")),
		mcp.WithString("session_id", mcp.Description("Session whose vocabulary is used (optional)")),
		mcp.WithOutputSchema[ValidateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: trigger
	s.mcpServer.AddTool(mcp.NewTool("trigger",
		mcp.WithDescription("Fire an event (e.g. click, submit) on an element and wait for its listeners."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Element id")),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event name")),
		mcp.WithString("value", mcp.Description("Value carried by the event; 'when' listeners read it as INPUT_VALUE (optional)")),
		mcp.WithString("session_id", mcp.Description("Session (optional)")),
	), s.handleTrigger)

	// TOOL: inspect
	s.mcpServer.AddTool(mcp.NewTool("inspect",
		mcp.WithDescription("Get the element tree of a session as JSON."),
		mcp.WithString("session_id", mcp.Description("Session (optional)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := s.sessions.Inspect(ctx, sessionArg(request.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(snap)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleExecute(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExecuteResponse, error) {
	text, _ := args["text"].(string)

	// Sanitize Input
	clean, err := runner.SanitizeInputLimit(text, s.maxInput)
	if err != nil {
		s.logger.Warn("MCP Execute: Input rejected", "error", err, "size", len(text))
		return ExecuteResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	report, err := s.sessions.Cmd(ctx, sessionArg(args), clean)
	if err != nil {
		return ExecuteResponse{}, fmt.Errorf("execute failed: %w", err)
	}

	return ExecuteResponse{
		OK:       report.OK(),
		Segments: dsl.Segment(clean),
		Outcomes: report.Outcomes,
	}, nil
}

func (s *Server) handleSegment(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SegmentResponse, error) {
	text, _ := args["text"].(string)
	segments := dsl.Segment(text)
	if segments == nil {
		segments = []string{}
	}
	return SegmentResponse{Segments: segments}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	text, _ := args["text"].(string)
	in, err := s.sessions.LoadOrStart(ctx, sessionArg(args))
	if err != nil {
		return ValidateResponse{}, err
	}
	issues := validator.Lint(text, validator.FromVocabulary(in.Vocabulary()))
	if issues == nil {
		issues = []validator.Issue{}
	}
	return ValidateResponse{Valid: len(issues) == 0, Issues: issues}, nil
}

func (s *Server) handleTrigger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	target, _ := args["target"].(string)
	event, _ := args["event"].(string)
	value, _ := args["value"].(string)

	if err := s.sessions.Trigger(ctx, sessionArg(args), target, event, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trigger failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s dispatched to %s", event, target)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: senglish://tree
	s.mcpServer.AddResource(mcp.NewResource("senglish://tree", "Element tree of the default session",
		mcp.WithMIMEType("application/json"),
	), s.readTree)

	// EXPOSE: senglish://vocabulary
	s.mcpServer.AddResource(mcp.NewResource("senglish://vocabulary", "Registered commands and their patterns",
		mcp.WithMIMEType("application/json"),
	), s.readVocabulary)
}

func (s *Server) readTree(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	in, err := s.sessions.LoadOrStart(ctx, DefaultSession)
	if err != nil {
		return nil, err
	}
	snap, err := in.Inspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect tree: %w", err)
	}
	jsonBytes, _ := json.Marshal(snap)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "senglish://tree",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readVocabulary(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	in, err := s.sessions.LoadOrStart(ctx, DefaultSession)
	if err != nil {
		return nil, err
	}
	jsonBytes, _ := json.Marshal(in.Vocabulary())

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "senglish://vocabulary",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func sessionArg(args map[string]interface{}) string {
	if id, ok := args["session_id"].(string); ok && id != "" {
		return id
	}
	return DefaultSession
}
