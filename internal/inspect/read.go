package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdftools/internal/logger"
	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
)

// ReadRequest selects the document and page budget for ReadText.
type ReadRequest struct {
	Path     string
	MaxPages int
	Password string
}

// ReadText extracts the document text, falling back to OCR for scanned
// documents, and appends notes and a metadata footer.
func (s *Service) ReadText(ctx context.Context, req ReadRequest) (string, error) {
	const op = "ReadText"

	path, err := pdf.ValidatePath(req.Path)
	if err != nil {
		return "", err
	}
	size, err := pdf.FileSize(path, s.settings.LargeFileThresholdMB)
	if err != nil {
		return "", err
	}
	if size.RecommendChunking {
		s.log.Warn().
			Str("file", path).
			Float64("size_mb", size.MB).
			Msg("Large PDF file, processing with page limit")
	}

	maxPages := req.MaxPages
	if maxPages < 1 {
		maxPages = s.settings.DefaultMaxPages
	}

	text, err := s.text.ExtractText(ctx, path, pdf.Options{MaxPages: maxPages, Password: req.Password})
	if err != nil {
		return "", pdf.WrapError(op, err, path)
	}

	content := text.Content()
	if strings.TrimSpace(content) == "" {
		return s.readViaOCR(ctx, path, maxPages, req.Password)
	}

	var b strings.Builder
	b.WriteString(content)
	if text.PageCount > maxPages {
		fmt.Fprintf(&b, "\n\n[Note: Content limited to %d pages out of %d total pages for performance]", maxPages, text.PageCount)
	}
	if size.RecommendChunking {
		fmt.Fprintf(&b, "\n\n[Note: Large file (%sMB) processed with memory optimization]", formatMB(size.MB))
	}
	fmt.Fprintf(&b, "\n\n--- PDF Metadata ---\nTotal Pages: %d\nFile Size: %sMB\nFile: %s",
		text.PageCount, formatMB(size.MB), filepath.Base(path))

	return b.String(), nil
}

// readViaOCR recognizes the images on the first maxPages pages.
func (s *Service) readViaOCR(ctx context.Context, path string, maxPages int, password string) (string, error) {
	const op = "readViaOCR"

	log := logger.WithContext(ctx)

	engine, err := s.selectOCR(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("No OCR engine available")
		return "No text content found in PDF. This might be a scanned document requiring OCR capabilities. " +
			"Install tesseract or configure Google Cloud Vision credentials for OCR support.", nil
	}
	log.Info().
		Str("file", path).
		Str("engine", engine.Name()).
		Msg("No text found in PDF, attempting OCR extraction")

	dir, err := os.MkdirTemp("", "pdf_ocr_*")
	if err != nil {
		return "", pdf.WrapError(op, err, "failed to create temporary directory")
	}
	defer s.removeDir(dir)

	pages := make([]int, maxPages)
	for i := range pages {
		pages[i] = i + 1
	}
	images, err := s.docs.ExtractImages(ctx, path, dir, pages, password)
	if err != nil {
		return "", pdf.WrapError(op, err, "OCR extraction failed")
	}
	if len(images) == 0 {
		return "No images found in PDF for OCR processing.", nil
	}

	var sections []string
	for _, res := range ocr.RecognizeAll(ctx, engine, imagePaths(images), s.settings.OCRConcurrency) {
		if res.Err != nil || res.Text == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("--- OCR Result from %s ---\n%s", res.Name, res.Text))
	}
	if len(sections) == 0 {
		return "OCR processing completed but no readable text was found in the images.", nil
	}

	return strings.Join(sections, "\n\n") +
		fmt.Sprintf("\n\n[Note: Text extracted via OCR from %d images]", len(sections)), nil
}

func (s *Service) removeDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove temporary directory")
	}
}

func imagePaths(images []pdf.Image) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}
