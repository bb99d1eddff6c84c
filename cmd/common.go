package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
	"pdftools/internal/logger"
	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
	"pdftools/internal/server"
	"pdftools/internal/tabular"
)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// CommandOutput is the JSON document written when --json is set.
type CommandOutput struct {
	Command     string    `json:"command"`
	FileName    string    `json:"file_name"`
	Result      string    `json:"result"`
	ProcessedAt time.Time `json:"processed_at"`
	Duration    string    `json:"processing_duration"`
}

// addOutputFlags registers the flags shared by the document commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
	cmd.Flags().StringP("password", "p", "", "Password for encrypted PDF files")
}

type outputOptions struct {
	path    string
	json    bool
	timeout int
}

func readOutputFlags(cmd *cobra.Command) outputOptions {
	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	return outputOptions{path: outputPath, json: jsonOutput, timeout: timeoutSecs}
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleInspectError provides user-friendly error messages for failed operations
func handleInspectError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("PDF processing failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("PDF processing timed out. Try increasing --timeout or limiting the pages")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("PDF processing was canceled")
	case errors.Is(err, pdf.ErrNotFound), errors.Is(err, pdf.ErrNotAPDF):
		return errors.New(pdf.UserMessage(err))
	case errors.Is(err, pdf.ErrCredentialRequired), errors.Is(err, pdf.ErrCredentialInvalid):
		return fmt.Errorf("PDF is password protected. Please provide the correct password using --password")
	case errors.Is(err, ocr.ErrNoEngine):
		return fmt.Errorf("no OCR engine available. Install tesseract or set GOOGLE_APPLICATION_CREDENTIALS for Cloud Vision")
	case errors.Is(err, tabular.ErrInvalidCredentials):
		return fmt.Errorf("Google Cloud authentication failed. Please check GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS: %w", err)
	case errors.Is(err, server.ErrInvalidArguments):
		return err
	case errors.Is(err, pdf.ErrExtractionFailed):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity: %w", err)
	default:
		return fmt.Errorf("PDF processing failed: %w", err)
	}
}

// outputResults writes the operation report to the output file or stdout
func outputResults(command, pdfPath, result string, started time.Time, opts outputOptions, log zerolog.Logger) error {
	var outputData []byte

	if opts.json {
		var err error
		outputData, err = json.MarshalIndent(CommandOutput{
			Command:     command,
			FileName:    filepath.Base(pdfPath),
			Result:      result,
			ProcessedAt: time.Now(),
			Duration:    time.Since(started).String(),
		}, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		outputData = []byte(result)
	}

	if opts.path != "" {
		if err := os.WriteFile(opts.path, outputData, 0o644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", opts.path).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", opts.path).
			Int("bytes", len(outputData)).
			Msg("Results written to file")
		return nil
	}

	if _, err := stdout.Write(append(outputData, '\n')); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// operation runs one inspect operation for a document.
type operation func(ctx context.Context, svc *inspect.Service, pdfPath, password string) (string, error)

// runOperation wires configuration, context and output handling around op.
func runOperation(cmd *cobra.Command, name, pdfPath string, op operation) error {
	log := logger.WithFields(map[string]interface{}{
		"component": name,
		"file":      pdfPath,
	})
	opts := readOutputFlags(cmd)
	password, _ := cmd.Flags().GetString("password")

	log.Info().
		Str("output", opts.path).
		Bool("json", opts.json).
		Int("timeout", opts.timeout).
		Msg("Starting PDF processing")

	ctx, cancel := createContextWithTimeout(opts.timeout, log)
	defer cancel()

	svc := inspect.New(ctx, appConfig)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close service")
		}
	}()

	started := time.Now()
	result, err := op(ctx, svc, pdfPath, password)
	if err != nil {
		return handleInspectError(err, log)
	}

	log.Info().
		Dur("duration", time.Since(started)).
		Int("result_length", len(result)).
		Msg("PDF processing completed successfully")

	return outputResults(name, pdfPath, result, started, opts, log)
}

func validatePageFlag(pages []int) error {
	for _, p := range pages {
		if p < 1 {
			return fmt.Errorf("%w: page numbers must be at least 1, got %d", server.ErrInvalidArguments, p)
		}
	}
	return nil
}
