package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pdftools/internal/logger"
	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [pdf-file]",
	Short: "Recognize text in the images of a PDF",
	Long: `Extract the images of a PDF file and recognize their text with an OCR engine.

Engines (--engine, default OCR_ENGINE):
  auto       - first available of native, tesseract, vision
  tesseract  - the tesseract binary (TESSERACT_BIN, language OCR_LANGUAGE)
  vision     - Google Cloud Vision document text detection
  native     - libtesseract, only in builds with the gosseract tag

Cloud Vision requires one of:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Recognize text of a scanned PDF to stdout
  pdftools ocr scan.pdf

  # Use Cloud Vision and save the per-image results as JSON
  pdftools ocr scan.pdf --engine vision --json -o result.json

  # Only the first two pages, with a longer timeout
  pdftools ocr large-scan.pdf --pages 1,2 --timeout 600`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	FileName           string          `json:"file_name"`
	FileSize           int64           `json:"file_size"`
	Engine             string          `json:"engine"`
	Images             []OCRImageEntry `json:"images"`
	ProcessedAt        time.Time       `json:"processed_at"`
	ProcessingDuration string          `json:"processing_duration"`
}

// OCRImageEntry is the outcome for one image.
type OCRImageEntry struct {
	Name  string `json:"name"`
	Page  int    `json:"page"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	addOutputFlags(ocrCmd)
	ocrCmd.Flags().String("engine", "", "OCR engine: auto, tesseract, vision, native (default: OCR_ENGINE)")
	ocrCmd.Flags().IntSlice("pages", nil, "Page numbers to process (default: all pages)")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	opts := readOutputFlags(cmd)
	password, _ := cmd.Flags().GetString("password")
	engineName, _ := cmd.Flags().GetString("engine")
	pages, _ := cmd.Flags().GetIntSlice("pages")
	if engineName == "" {
		engineName = appConfig.OCREngine
	}

	if err := validatePageFlag(pages); err != nil {
		return err
	}

	pdfPath, err := pdf.ValidatePath(args[0])
	if err != nil {
		return handleInspectError(err, log)
	}
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		return fmt.Errorf("error accessing PDF file: %w", err)
	}

	log.Info().
		Str("file", pdfPath).
		Str("engine", engineName).
		Ints("pages", pages).
		Int("timeout", opts.timeout).
		Msg("Starting OCR processing")

	ctx, cancel := createContextWithTimeout(opts.timeout, log)
	defer cancel()

	engines := ocr.Engines(ocr.Settings{
		Mode:         engineName,
		TesseractBin: appConfig.TesseractBin,
		Language:     appConfig.OCRLanguage,
	})
	defer closeEngines(engines, log)

	engine, err := ocr.Select(ctx, engines)
	if err != nil {
		return handleInspectError(err, log)
	}

	dir, err := os.MkdirTemp("", "pdf_ocr_*")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	startTime := time.Now()
	images, err := pdf.ExtractImages(ctx, pdfPath, dir, pages, password)
	if err != nil {
		return handleInspectError(err, log)
	}

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	results := ocr.RecognizeAll(ctx, engine, paths, appConfig.OCRConcurrency)
	if err := ctx.Err(); err != nil {
		return handleInspectError(err, log)
	}

	log.Info().
		Str("engine", engine.Name()).
		Int("images", len(images)).
		Dur("duration", time.Since(startTime)).
		Msg("OCR processing completed")

	output := OCROutput{
		FileName:           filepath.Base(pdfPath),
		FileSize:           fileInfo.Size(),
		Engine:             engine.Name(),
		Images:             make([]OCRImageEntry, len(results)),
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(startTime).String(),
	}
	for i, res := range results {
		entry := OCRImageEntry{Name: res.Name, Page: images[i].Page, Text: res.Text}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		output.Images[i] = entry
	}

	return outputOCRResults(output, opts, log)
}

func closeEngines(engines []ocr.Engine, log zerolog.Logger) {
	for _, e := range engines {
		if c, ok := e.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Str("engine", e.Name()).Msg("Failed to close OCR engine")
			}
		}
	}
}

// outputOCRResults formats and outputs the OCR results
func outputOCRResults(output OCROutput, opts outputOptions, log zerolog.Logger) error {
	var outputData []byte

	if opts.json {
		var err error
		outputData, err = json.MarshalIndent(output, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		outputData = []byte(formatOCRText(output))
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
			Msg("OCR results written to file")
		return nil
	}

	if _, err := stdout.Write(append(outputData, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatOCRText(output OCROutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== OCR Results for %s ===\n", output.FileName)
	fmt.Fprintf(&b, "Engine: %s\n", output.Engine)
	fmt.Fprintf(&b, "Images processed: %d\n", len(output.Images))
	fmt.Fprintf(&b, "Processing time: %s\n", output.ProcessingDuration)

	if len(output.Images) == 0 {
		b.WriteString("\nNo images found in PDF for OCR processing.")
		return b.String()
	}
	for _, img := range output.Images {
		switch {
		case img.Error != "":
			fmt.Fprintf(&b, "\n--- %s (Page %d) ---\nOCR failed: %s\n", img.Name, img.Page, img.Error)
		case img.Text == "":
			fmt.Fprintf(&b, "\n--- %s (Page %d) ---\n(no text found)\n", img.Name, img.Page)
		default:
			fmt.Fprintf(&b, "\n--- %s (Page %d) ---\n%s\n", img.Name, img.Page, img.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
