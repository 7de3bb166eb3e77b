package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// syntaxURI names the resource describing the expression syntax.
const syntaxURI = "ordinal://syntax"

const syntaxDoc = `A sequence expression is a filename with exactly one numeric placeholder.

  %d     unpadded decimal ordinal, e.g. "page%d.png" matches page7.png
  %Nd    zero padded to N digits, e.g. "img_%04d.jpg" matches img_0042.jpg

Everything else is literal text. Only the first placeholder is numeric; any
later "%" characters are matched literally.`

// MatchArgs is the input of the match_ordinal tool.
type MatchArgs struct {
	Expression string   `json:"expression"`
	Filenames  []string `json:"filenames"`
}

// MatchResult reports the ordinal of one filename.
type MatchResult struct {
	Filename string `json:"filename"`
	Ordinal  int    `json:"ordinal" jsonschema_description:"Ordinal encoded in the filename, 0 when not matched"`
	Matched  bool   `json:"matched"`
}

// MatchResponse is the output of the match_ordinal tool.
type MatchResponse struct {
	Expression string        `json:"expression"`
	Results    []MatchResult `json:"results"`
}

// ExpectedArgs is the input of the expected_name tool.
type ExpectedArgs struct {
	Expression string `json:"expression"`
	Filename   string `json:"filename"`
	Offset     *int   `json:"offset,omitempty"`
}

// ExpectedResponse is the output of the expected_name tool.
type ExpectedResponse struct {
	Expected string `json:"expected"`
}

// WalkArgs is the input of the find_gap and mark_run tools.
type WalkArgs struct {
	Expression string   `json:"expression"`
	Filenames  []string `json:"filenames"`
	From       string   `json:"from,omitempty"`
}

// PlanArgs is the input of the plan_rename tool.
type PlanArgs struct {
	Kind       string   `json:"kind"`
	Expression string   `json:"expression"`
	To         string   `json:"to,omitempty"`
	Filenames  []string `json:"filenames"`
	Start      *int     `json:"start,omitempty"`
	Step       *int     `json:"step,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

// Server exposes the engine as MCP tools. Tools only see the filenames they
// are given and never touch the filesystem.
type Server struct {
	engine    *ordinal.Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *ordinal.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("ordinal-mcp", strings.TrimSpace(ordinal.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	expression := mcp.WithString("expression", mcp.Required(),
		mcp.Description(`Sequence expression with one %d or %Nd placeholder, e.g. "img_%04d.png"`))
	filenames := mcp.WithArray("filenames", mcp.Required(), mcp.WithStringItems(),
		mcp.Description("Filenames in display order"))

	s.mcpServer.AddTool(mcp.NewTool("match_ordinal",
		mcp.WithDescription("Extract the ordinal of each filename under a sequence expression."),
		expression,
		filenames,
		mcp.WithOutputSchema[MatchResponse](),
	), mcp.NewStructuredToolHandler(s.handleMatch))

	s.mcpServer.AddTool(mcp.NewTool("expected_name",
		mcp.WithDescription("Compute the filename a number of positions away from a filename of the sequence."),
		expression,
		mcp.WithString("filename", mcp.Required(), mcp.Description("Filename belonging to the sequence")),
		mcp.WithNumber("offset", mcp.Description("Positions to move, negative moves back (default 1)")),
		mcp.WithOutputSchema[ExpectedResponse](),
	), mcp.NewStructuredToolHandler(s.handleExpected))

	from := mcp.WithString("from", mcp.Description("Filename to start from; defaults to the first filename of the sequence"))

	s.mcpServer.AddTool(mcp.NewTool("find_gap",
		mcp.WithDescription("Walk the filenames from a starting point and report where the contiguous run breaks."),
		expression,
		filenames,
		from,
		mcp.WithOutputSchema[domain.Gap](),
	), mcp.NewStructuredToolHandler(s.handleFindGap))

	s.mcpServer.AddTool(mcp.NewTool("mark_run",
		mcp.WithDescription("List the filenames of the contiguous run starting at a filename."),
		expression,
		filenames,
		from,
		mcp.WithOutputSchema[domain.Run](),
	), mcp.NewStructuredToolHandler(s.handleMarkRun))

	s.mcpServer.AddTool(mcp.NewTool("plan_rename",
		mcp.WithDescription("Compute, without applying, the renames of a sequential, offset or cross transformation."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum("sequential", "offset", "cross")),
		expression,
		mcp.WithString("to", mcp.Description("Target expression of a cross rename")),
		filenames,
		mcp.WithNumber("start", mcp.Description("First ordinal of a sequential rename (default 1)")),
		mcp.WithNumber("step", mcp.Description("Ordinal increment of a sequential rename (default 1)")),
		mcp.WithNumber("offset", mcp.Description("Ordinal shift of an offset rename")),
		mcp.WithOutputSchema[domain.Plan](),
	), mcp.NewStructuredToolHandler(s.handlePlan))
}

func (s *Server) handleMatch(ctx context.Context, request mcp.CallToolRequest, args MatchArgs) (MatchResponse, error) {
	seq, err := ordinal.Compile(args.Expression)
	if err != nil {
		return MatchResponse{}, err
	}
	resp := MatchResponse{Expression: args.Expression, Results: make([]MatchResult, 0, len(args.Filenames))}
	for _, name := range args.Filenames {
		n, ok := seq.MatchOrdinal(name)
		resp.Results = append(resp.Results, MatchResult{Filename: name, Ordinal: n, Matched: ok})
	}
	return resp, nil
}

func (s *Server) handleExpected(ctx context.Context, request mcp.CallToolRequest, args ExpectedArgs) (ExpectedResponse, error) {
	offset := 1
	if args.Offset != nil {
		offset = *args.Offset
	}
	name, err := s.engine.Expected(args.Expression, args.Filename, offset)
	if err != nil {
		return ExpectedResponse{}, err
	}
	return ExpectedResponse{Expected: name}, nil
}

func (s *Server) walk(ctx context.Context, args WalkArgs) (*memory.List, error) {
	list := memory.NewList(args.Filenames...)
	if err := s.engine.Position(ctx, args.Expression, list, args.From); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Server) handleFindGap(ctx context.Context, request mcp.CallToolRequest, args WalkArgs) (domain.Gap, error) {
	list, err := s.walk(ctx, args)
	if err != nil {
		return domain.Gap{}, err
	}
	return s.engine.FindGap(ctx, args.Expression, list)
}

func (s *Server) handleMarkRun(ctx context.Context, request mcp.CallToolRequest, args WalkArgs) (domain.Run, error) {
	list, err := s.walk(ctx, args)
	if err != nil {
		return domain.Run{}, err
	}
	return s.engine.MarkRun(ctx, args.Expression, list)
}

func (s *Server) handlePlan(ctx context.Context, request mcp.CallToolRequest, args PlanArgs) (domain.Plan, error) {
	kind, ok := domain.ParseRenameKind(args.Kind)
	if !ok {
		return domain.Plan{}, fmt.Errorf("unknown rename kind %q", args.Kind)
	}
	if kind == domain.RenameCross && args.To == "" {
		return domain.Plan{}, errors.New(`cross rename needs a target expression in "to"`)
	}

	req := ordinal.RenameRequest{
		Kind:       kind,
		Expression: args.Expression,
		To:         args.To,
		Names:      args.Filenames,
		Start:      1,
		Step:       1,
		Offset:     args.Offset,
	}
	if args.Start != nil {
		req.Start = *args.Start
	}
	if args.Step != nil {
		req.Step = *args.Step
	}

	plan, err := s.engine.Plan(req)
	if err != nil {
		return domain.Plan{}, err
	}
	plan, err = ordinal.Schedule(plan)
	if err != nil {
		s.logger.Warn("MCP plan_rename: unschedulable plan", "kind", kind, "error", err)
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(syntaxURI, "Sequence expression syntax",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      syntaxURI,
				MIMEType: "text/plain",
				Text:     syntaxDoc,
			},
		}, nil
	})
}
