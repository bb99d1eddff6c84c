// Package tabular wraps layout-aware table extractors that run outside the
// process: pdfplumber through a Python subprocess and Google Document AI.
//
// Every extractor is optional. When its backend is missing or not configured
// Extract returns an error matching pdf.ErrToolUnavailable and callers fall
// back to the text heuristics in package tables.
package tabular

import (
	"context"

	"pdftools/internal/tables"
)

// Request selects the document and pages to extract tables from.
type Request struct {
	Path     string
	Pages    []int
	Password string
}

// Extractor produces structured tables for a document.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, req Request) ([]tables.Structured, error)
}
