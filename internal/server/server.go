// Package server exposes the PDF operations as Model Context Protocol tools over
// stdio.
//
// Tool failures never surface as protocol errors: they are returned as tool
// results flagged IsError with the text "Error: <message>".
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"pdftools/internal/inspect"
	"pdftools/internal/logger"
	"pdftools/internal/pdf"
)

const (
	// Name is the server name announced during initialization.
	Name = "pdf-reader"

	// Version is the server version announced during initialization.
	Version = "2.0.0"
)

// ErrInvalidArguments is returned when tool arguments fail validation.
var ErrInvalidArguments = errors.New("invalid arguments")

// Operations are the PDF operations served as tools.
type Operations interface {
	ReadText(ctx context.Context, req inspect.ReadRequest) (string, error)
	ExtractTables(ctx context.Context, req inspect.TablesRequest) (string, error)
	ExtractImages(ctx context.Context, req inspect.ImagesRequest) (string, error)
	Analyze(ctx context.Context, req inspect.AnalyzeRequest) (string, error)
}

// Server dispatches MCP tool calls to Operations.
type Server struct {
	ops     Operations
	mcp     *server.MCPServer
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a server. A positive timeout bounds every tool call.
func New(ops Operations, timeout time.Duration) *Server {
	s := &Server{
		ops:     ops,
		timeout: timeout,
		log:     logger.WithComponent("server"),
	}
	s.mcp = server.NewMCPServer(Name, Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.mcp.AddTools(s.tools()...)
	return s
}

// Serve reads requests from in and writes responses to out until ctx is done
// or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.log, "", 0))

	s.log.Info().
		Str("name", Name).
		Str("version", Version).
		Msg("PDF Reader MCP server running on stdio")

	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// run executes one tool call with a request-scoped logger and converts the
// outcome into a tool result.
func (s *Server) run(ctx context.Context, tool string, call func(context.Context) (string, error)) (*mcp.CallToolResult, error) {
	requestID := uuid.NewString()
	log := logger.WithRequest(tool, requestID)
	ctx = log.WithContext(ctx)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	log.Debug().Msg("Tool call started")

	text, err := call(ctx)
	if err != nil {
		log.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Tool call failed")
		return mcp.NewToolResultError("Error: " + pdf.UserMessage(err)), nil
	}

	log.Info().
		Dur("duration", time.Since(start)).
		Int("bytes", len(text)).
		Msg("Tool call completed")
	return mcp.NewToolResultText(text), nil
}
