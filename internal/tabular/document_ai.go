package tabular

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pdftools/internal/logger"
	"pdftools/internal/pdf"
	"pdftools/internal/tables"
)

const (
	// MaxDocumentSizeBytes is the maximum document size for online processing (20MB)
	MaxDocumentSizeBytes = 20 * 1024 * 1024

	documentAIName = "document-ai"
)

// Document AI processing errors
var (
	// ErrInvalidCredentials is returned when the credentials lack access to the processor.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrProcessorNotFound is returned when the configured processor does not exist.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when Document AI API quota limits are exceeded.
	ErrQuotaExceeded = errors.New("Document AI API quota exceeded")

	// ErrDocumentTooLarge is returned when the PDF exceeds the online processing limit.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")
)

// DocumentAIConfig holds configuration for Google Document AI processing.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is a form parser or layout parser processor.
	ProcessorID string

	// ProcessorVersion pins a processor version. Empty uses the default.
	ProcessorVersion string

	// Timeout bounds a single processing call. Default: 60 seconds.
	Timeout time.Duration
}

// Enabled reports whether enough configuration is present to call the API.
func (c DocumentAIConfig) Enabled() bool {
	return c.ProjectID != "" && c.ProcessorID != ""
}

// DocumentAI extracts tables with a Google Document AI processor.
type DocumentAI struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAI creates the extractor with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func NewDocumentAI(ctx context.Context, config DocumentAIConfig) (*DocumentAI, error) {
	const op = "NewDocumentAI"

	if !config.Enabled() {
		return nil, pdf.WrapError(op, pdf.ErrToolUnavailable, "GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID are required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	var clientOptions []option.ClientOption
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
	clientOptions = append(clientOptions, option.WithEndpoint(endpoint))

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		return nil, pdf.WrapError(op, pdf.ErrToolUnavailable,
			fmt.Sprintf("failed to create Document AI client for location %s: %v", config.Location, err))
	}

	return NewDocumentAIWithClient(config, client), nil
}

// NewDocumentAIWithClient creates the extractor with an explicit client (for testing).
func NewDocumentAIWithClient(config DocumentAIConfig, client *documentai.DocumentProcessorClient) *DocumentAI {
	return &DocumentAI{
		client: client,
		config: config,
		log:    logger.WithComponent(documentAIName),
	}
}

// Name implements Extractor.
func (d *DocumentAI) Name() string { return documentAIName }

// Extract implements Extractor.
func (d *DocumentAI) Extract(ctx context.Context, req Request) ([]tables.Structured, error) {
	const op = "DocumentAI.Extract"

	content, err := d.readDocument(req)
	if err != nil {
		return nil, pdf.WrapError(op, err, "")
	}
	if len(content) > MaxDocumentSizeBytes {
		return nil, pdf.WrapError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(content)))
	}

	processCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	processReq := &documentaipb.ProcessRequest{
		Name: d.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: "application/pdf",
			},
		},
	}
	if len(req.Pages) > 0 {
		pages := make([]int32, 0, len(req.Pages))
		for _, p := range req.Pages {
			pages = append(pages, int32(p))
		}
		processReq.ProcessOptions = &documentaipb.ProcessOptions{
			PageRange: &documentaipb.ProcessOptions_IndividualPageSelector_{
				IndividualPageSelector: &documentaipb.ProcessOptions_IndividualPageSelector{Pages: pages},
			},
		}
	}

	start := time.Now()
	resp, err := d.client.ProcessDocument(processCtx, processReq)
	if err != nil {
		return nil, d.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, pdf.WrapError(op, pdf.ErrExtractionFailed, "no document in response")
	}

	found := tablesFromDocument(resp.Document)
	d.log.Info().
		Str("file", req.Path).
		Int("tables", len(found)).
		Dur("duration", time.Since(start)).
		Msg("Document AI table extraction completed")

	return found, nil
}

func (d *DocumentAI) readDocument(req Request) ([]byte, error) {
	if req.Password != "" {
		return pdf.Decrypt(req.Path, req.Password)
	}
	return os.ReadFile(req.Path)
}

// processorName constructs the full processor name for Document AI API.
func (d *DocumentAI) processorName() string {
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		d.config.ProjectID, d.config.Location, d.config.ProcessorID)
	if d.config.ProcessorVersion != "" {
		name += "/processorVersions/" + d.config.ProcessorVersion
	}
	return name
}

// handleProcessingError converts Document AI errors to extractor errors.
func (d *DocumentAI) handleProcessingError(op string, err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return pdf.WrapError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case codes.ResourceExhausted:
		return pdf.WrapError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case codes.NotFound:
		return pdf.WrapError(op, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", d.config.ProcessorID))
	case codes.InvalidArgument:
		return pdf.WrapError(op, pdf.ErrExtractionFailed, "document format not supported or corrupted")
	case codes.DeadlineExceeded:
		return pdf.WrapError(op, context.DeadlineExceeded, "processing timeout")
	case codes.Canceled:
		return pdf.WrapError(op, context.Canceled, "processing was canceled")
	default:
		return pdf.WrapError(op, pdf.ErrExtractionFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// tablesFromDocument collects the page tables of a processed document.
func tablesFromDocument(doc *documentaipb.Document) []tables.Structured {
	text := []rune(doc.GetText())

	var found []tables.Structured
	for _, page := range doc.GetPages() {
		for i, table := range page.GetTables() {
			var data [][]string
			for _, row := range table.GetHeaderRows() {
				data = append(data, rowText(text, row))
			}
			for _, row := range table.GetBodyRows() {
				data = append(data, rowText(text, row))
			}

			columns := 0
			if len(data) > 0 {
				columns = len(data[0])
			}
			found = append(found, tables.Structured{
				Source:  documentAIName,
				Page:    int(page.GetPageNumber()),
				Index:   i + 1,
				Rows:    len(data),
				Columns: columns,
				Data:    data,
			})
		}
	}
	return found
}

func rowText(text []rune, row *documentaipb.Document_Page_Table_TableRow) []string {
	cells := make([]string, 0, len(row.GetCells()))
	for _, cell := range row.GetCells() {
		cells = append(cells, anchorText(text, cell.GetLayout().GetTextAnchor()))
	}
	return cells
}

// anchorText resolves a text anchor against the document text. Offsets are
// code point indices.
func anchorText(text []rune, anchor *documentaipb.Document_TextAnchor) string {
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start, end := int(seg.GetStartIndex()), int(seg.GetEndIndex())
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		b.WriteString(string(text[start:end]))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Close closes the underlying Document AI client.
func (d *DocumentAI) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
