package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
	"pdftools/internal/logger"
	"pdftools/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the PDF Reader MCP server on stdio",
	Long: `Serve the PDF operations as Model Context Protocol tools over stdin/stdout.

Tools:
  read_pdf               - extract text, with OCR fallback for scanned documents
  extract_pdf_tables     - structured extractors plus text heuristics
  extract_pdf_images     - list embedded images, optionally with OCR
  analyze_pdf_structure  - size, pages, metadata, text preview, table and image counts

Every tool call is bounded by TOOL_TIMEOUT. Logs are written to stderr (or
LOG_OUTPUT when it names a file) so they never mix with the protocol stream.`,
	Example: `  # Register with an MCP client
  pdftools serve

  # Verbose logging to a file
  LOG_LEVEL=debug LOG_OUTPUT=/tmp/pdftools.log pdftools serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logger.Setup(appConfig.GetLoggerConfig().ForStdioServer()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithComponent("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := inspect.New(ctx, appConfig)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close service")
		}
	}()

	log.Info().
		Dur("tool_timeout", appConfig.ToolTimeout).
		Str("ocr_engine", appConfig.OCREngine).
		Bool("document_ai", appConfig.DocumentAIEnabled()).
		Msg("Starting MCP server")

	if err := server.New(svc, appConfig.ToolTimeout).Serve(ctx, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("MCP server stopped with error")
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("MCP server stopped")
	return nil
}
