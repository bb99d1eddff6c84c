// Package ocr recognizes text in images extracted from PDF documents.
//
// Three engines are available:
//   - TesseractCLI runs the tesseract binary found on PATH
//   - Vision calls the Google Cloud Vision API (DOCUMENT_TEXT_DETECTION)
//   - Native links libtesseract through gosseract and is only compiled with the
//     "gosseract" build tag
//
// OCR is a best-effort collaborator: when no engine is available callers get
// ErrNoEngine, which matches pdf.ErrToolUnavailable, and carry on without it.
//
// Vision credentials are read from the environment:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
package ocr

import (
	"context"
	"time"
)

// Engine recognizes text in a single image file.
type Engine interface {
	// Name identifies the engine in logs and output.
	Name() string

	// Available reports whether the engine can be used right now.
	Available(ctx context.Context) bool

	// Recognize returns the text found in the image at imagePath.
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Result is the outcome of recognizing one image.
type Result struct {
	// ImagePath is the image that was processed.
	ImagePath string `json:"image_path"`

	// Name is the base name of the image file.
	Name string `json:"name"`

	// Text is the recognized text, trimmed. Empty when nothing was found.
	Text string `json:"text"`

	// Err is set when recognition failed for this image.
	Err error `json:"-"`

	// Duration is how long recognition took.
	Duration time.Duration `json:"duration"`
}
