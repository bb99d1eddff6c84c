package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
)

// ImagesRequest selects the document, pages and OCR behaviour for ExtractImages.
type ImagesRequest struct {
	Path     string
	Pages    []int
	OCR      bool
	Password string

	// OutputDir keeps the extracted images. When empty they are written to a
	// temporary directory that is removed afterwards.
	OutputDir string
}

// ExtractImages lists the embedded images and optionally recognizes their text.
func (s *Service) ExtractImages(ctx context.Context, req ImagesRequest) (string, error) {
	const op = "ExtractImages"

	path, err := pdf.ValidatePath(req.Path)
	if err != nil {
		return "", err
	}

	dir := req.OutputDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "pdf_images_*")
		if err != nil {
			return "", pdf.WrapError(op, err, "failed to create temporary directory")
		}
		defer s.removeDir(dir)
	}

	images, err := s.docs.ExtractImages(ctx, path, dir, req.Pages, req.Password)
	if err != nil {
		return "", pdf.WrapError(op, err, path)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Images extracted from %s ===\nImages Found: %d\nOCR enabled: %t\n",
		filepath.Base(path), len(images), req.OCR)
	if len(images) == 0 {
		b.WriteString("\nNo images found in PDF.")
		return b.String(), nil
	}
	if req.OutputDir != "" {
		fmt.Fprintf(&b, "Saved to: %s\n", dir)
	}

	page := -1
	for _, img := range images {
		if img.Page != page {
			page = img.Page
			fmt.Fprintf(&b, "\n--- Page %d ---\n", page)
		}
		fmt.Fprintf(&b, "%s (%d bytes)\n", img.Name, img.Bytes)
	}

	if req.OCR {
		b.WriteString(s.ocrReport(ctx, images))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) ocrReport(ctx context.Context, images []pdf.Image) string {
	engine, err := s.selectOCR(ctx)
	if err != nil {
		return "\nOCR not available: install tesseract or configure Google Cloud Vision credentials.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n=== OCR Results (%s) ===\n", engine.Name())
	for _, res := range ocr.RecognizeAll(ctx, engine, imagePaths(images), s.settings.OCRConcurrency) {
		switch {
		case res.Err != nil:
			fmt.Fprintf(&b, "\n--- OCR failed for %s: %v ---\n", res.Name, res.Err)
		case res.Text == "":
			fmt.Fprintf(&b, "\n--- OCR Result from %s ---\n(no text found)\n", res.Name)
		default:
			fmt.Fprintf(&b, "\n--- OCR Result from %s ---\n%s\n", res.Name, res.Text)
		}
	}
	return b.String()
}
