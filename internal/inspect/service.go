// Package inspect implements the PDF operations exposed as tools: reading text,
// extracting tables and images, and summarizing document structure.
//
// Each operation returns the human-readable report sent back to the caller.
// Optional collaborators (structured table extractors, OCR engines) degrade
// gracefully: when they are missing the report says so and the operation still
// succeeds with whatever the text heuristics found.
package inspect

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"pdftools/internal/config"
	"pdftools/internal/logger"
	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
	"pdftools/internal/tables"
	"pdftools/internal/tabular"
)

// TextExtractor extracts plain text from a document.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string, opts pdf.Options) (*pdf.Text, error)
}

// Documents reads document structure and embedded images.
type Documents interface {
	Inspect(path, password string) (*pdf.Info, error)
	ExtractImages(ctx context.Context, path, dir string, pages []int, password string) ([]pdf.Image, error)
}

type pdfcpuDocuments struct{}

func (pdfcpuDocuments) Inspect(path, password string) (*pdf.Info, error) {
	return pdf.Inspect(path, password)
}

func (pdfcpuDocuments) ExtractImages(ctx context.Context, path, dir string, pages []int, password string) ([]pdf.Image, error) {
	return pdf.ExtractImages(ctx, path, dir, pages, password)
}

// Settings holds the limits applied by the operations.
type Settings struct {
	// DefaultMaxPages caps ReadText when the request does not set MaxPages.
	DefaultMaxPages int

	// AnalyzeMaxPages caps the text read for the Analyze preview.
	AnalyzeMaxPages int

	// LargeFileThresholdMB flags documents above this size.
	LargeFileThresholdMB float64

	// MaxTableTextBytes caps the text handed to the table detector. Zero means no cap.
	MaxTableTextBytes int

	// OCRConcurrency bounds parallel OCR calls.
	OCRConcurrency int
}

// Dependencies are the collaborators of a Service. Nil fields get defaults.
type Dependencies struct {
	Text       TextExtractor
	Documents  Documents
	Detector   *tables.Detector
	Extractors []tabular.Extractor
	OCREngines []ocr.Engine
}

// Service runs the PDF operations.
type Service struct {
	settings   Settings
	text       TextExtractor
	docs       Documents
	detector   *tables.Detector
	extractors []tabular.Extractor
	ocrEngines []ocr.Engine
	log        zerolog.Logger
}

// NewService creates a service from explicit settings and collaborators.
func NewService(settings Settings, deps Dependencies) *Service {
	if settings.DefaultMaxPages < 1 {
		settings.DefaultMaxPages = 10
	}
	if settings.AnalyzeMaxPages < 1 {
		settings.AnalyzeMaxPages = 5
	}
	if settings.LargeFileThresholdMB <= 0 {
		settings.LargeFileThresholdMB = pdf.DefaultLargeFileThresholdMB
	}
	if settings.OCRConcurrency < 1 {
		settings.OCRConcurrency = 1
	}

	if deps.Text == nil {
		deps.Text = pdf.NewReader()
	}
	if deps.Documents == nil {
		deps.Documents = pdfcpuDocuments{}
	}
	if deps.Detector == nil {
		deps.Detector = tables.NewDetector(tables.DefaultOptions())
	}

	return &Service{
		settings:   settings,
		text:       deps.Text,
		docs:       deps.Documents,
		detector:   deps.Detector,
		extractors: deps.Extractors,
		ocrEngines: deps.OCREngines,
		log:        logger.WithComponent("inspect"),
	}
}

// New builds a service from configuration. Document AI is added when configured;
// a client that cannot be created is logged and skipped.
func New(ctx context.Context, cfg *config.Config) *Service {
	log := logger.WithComponent("inspect")

	extractors := []tabular.Extractor{tabular.NewPdfplumber(cfg.PythonBin)}
	if cfg.DocumentAIEnabled() {
		docAI, err := tabular.NewDocumentAI(ctx, tabular.DocumentAIConfig{
			ProjectID:        cfg.GoogleCloudProject,
			Location:         cfg.GoogleCloudLocation,
			ProcessorID:      cfg.DocumentAIProcessorID,
			ProcessorVersion: cfg.DocumentAIProcessorVersion,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Document AI table extraction disabled")
		} else {
			extractors = append(extractors, docAI)
		}
	}

	return NewService(Settings{
		DefaultMaxPages:      cfg.DefaultMaxPages,
		AnalyzeMaxPages:      cfg.AnalyzeMaxPages,
		LargeFileThresholdMB: cfg.LargeFileThresholdMB,
		MaxTableTextBytes:    cfg.MaxTableTextBytes,
		OCRConcurrency:       cfg.OCRConcurrency,
	}, Dependencies{
		Detector:   tables.NewDetector(cfg.TableOptions()),
		Extractors: extractors,
		OCREngines: ocr.Engines(ocr.Settings{
			Mode:         cfg.OCREngine,
			TesseractBin: cfg.TesseractBin,
			Language:     cfg.OCRLanguage,
		}),
	})
}

// Close releases collaborators that hold connections.
func (s *Service) Close() error {
	var errs []error
	for _, ex := range s.extractors {
		if c, ok := ex.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	for _, e := range s.ocrEngines {
		if c, ok := e.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// selectOCR returns the first available OCR engine.
func (s *Service) selectOCR(ctx context.Context) (ocr.Engine, error) {
	return ocr.Select(ctx, s.ocrEngines)
}

// formatMB renders a size the way it is shown in reports (e.g. 1.5, 0.01).
func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', -1, 64)
}
