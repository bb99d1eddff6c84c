// Package pdf opens PDF documents and extracts their text, images and metadata.
//
// Text extraction uses github.com/ledongthuc/pdf, which handles the standard
// security handler, so password protected documents can be read when the caller
// supplies the user password. Structural inspection, decryption and image
// extraction use github.com/pdfcpu/pdfcpu.
//
// Errors are reported as *Error values wrapping one of the package sentinels
// (ErrNotFound, ErrNotAPDF, ErrCredentialRequired, ErrCredentialInvalid,
// ErrExtractionFailed) so callers can tell them apart with errors.Is.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"pdftools/internal/logger"
)

// Options selects what to extract.
type Options struct {
	// MaxPages limits extraction to the first MaxPages pages. Zero means all pages.
	// Ignored when Pages is set.
	MaxPages int

	// Pages selects specific 1-based page numbers. Out of range numbers are skipped.
	Pages []int

	// Password opens encrypted documents.
	Password string
}

// PageText is the plain text of one page.
type PageText struct {
	Number int
	Text   string
}

// Text is the extracted text of a document.
type Text struct {
	Pages     []PageText
	PageCount int
}

// Content joins the page texts with blank lines.
func (t *Text) Content() string {
	parts := make([]string, 0, len(t.Pages))
	for _, p := range t.Pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Reader extracts text from PDF files.
type Reader struct {
	log zerolog.Logger
}

// NewReader creates a text reader.
func NewReader() *Reader {
	return &Reader{log: logger.WithComponent("pdf")}
}

// ExtractText extracts plain text page by page.
func (r *Reader) ExtractText(ctx context.Context, path string, opts Options) (text *Text, err error) {
	const op = "ExtractText"

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapError(op, ErrNotFound, path)
		}
		return nil, WrapError(op, err, "failed to open file")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			r.log.Warn().Err(closeErr).Str("file", path).Msg("Failed to close PDF file")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, WrapError(op, err, "failed to stat file")
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = nil
			err = WrapError(op, ErrExtractionFailed, fmt.Sprintf("parser panic: %v", rec))
		}
	}()

	doc, err := lpdf.NewReaderEncrypted(f, info.Size(), oneShotPassword(opts.Password))
	if err != nil {
		return nil, classifyOpenError(op, err, opts.Password)
	}

	total := doc.NumPage()
	pages := selectPages(total, opts)
	r.log.Debug().
		Str("file", path).
		Int("page_count", total).
		Int("selected", len(pages)).
		Msg("Extracting PDF text")

	fonts := make(map[string]*lpdf.Font)
	result := &Text{PageCount: total}
	for _, n := range pages {
		if err := ctx.Err(); err != nil {
			return nil, WrapError(op, err, "extraction canceled")
		}

		page := doc.Page(n)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		content, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, WrapError(op, ErrExtractionFailed, fmt.Sprintf("page %d: %v", n, err))
		}
		result.Pages = append(result.Pages, PageText{Number: n, Text: content})
	}

	return result, nil
}

// oneShotPassword yields the password once; the parser keeps asking until it
// gets an empty string.
func oneShotPassword(password string) func() string {
	used := false
	return func() string {
		if used {
			return ""
		}
		used = true
		return password
	}
}

func classifyOpenError(op string, err error, password string) error {
	switch {
	case errors.Is(err, lpdf.ErrInvalidPassword) && password == "":
		return WrapError(op, ErrCredentialRequired, "provide the password parameter")
	case errors.Is(err, lpdf.ErrInvalidPassword):
		return WrapError(op, ErrCredentialInvalid, "the supplied password was rejected")
	case strings.Contains(strings.ToLower(err.Error()), "password"):
		return WrapError(op, ErrCredentialRequired, err.Error())
	default:
		return WrapError(op, ErrExtractionFailed, err.Error())
	}
}

// selectPages returns the sorted, de-duplicated 1-based pages to read.
func selectPages(total int, opts Options) []int {
	if len(opts.Pages) > 0 {
		seen := make(map[int]bool, len(opts.Pages))
		var pages []int
		for _, n := range opts.Pages {
			if n < 1 || n > total || seen[n] {
				continue
			}
			seen[n] = true
			pages = append(pages, n)
		}
		sort.Ints(pages)
		return pages
	}

	limit := total
	if opts.MaxPages > 0 && opts.MaxPages < total {
		limit = opts.MaxPages
	}
	pages := make([]int, limit)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
