package inspect

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"pdftools/internal/logger"
	"pdftools/internal/pdf"
	"pdftools/internal/tables"
	"pdftools/internal/tabular"
)

const noTablesHint = "No tables found in the PDF. Consider installing pdfplumber (pip install pdfplumber) for better table extraction capabilities."

// TablesRequest selects the document and pages for ExtractTables.
type TablesRequest struct {
	Path     string
	Pages    []int
	Password string
}

type tableReport struct {
	sections   []string
	structured map[string]int
	detected   int
}

// ExtractTables runs every structured extractor and then the text heuristics.
// Extractor and heuristic failures are reported inline.
func (s *Service) ExtractTables(ctx context.Context, req TablesRequest) (string, error) {
	path, err := pdf.ValidatePath(req.Path)
	if err != nil {
		return "", err
	}

	report := s.collectTables(ctx, path, req.Pages, req.Password)
	if len(report.sections) == 0 {
		return noTablesHint, nil
	}
	return strings.Join(report.sections, "\n"), nil
}

func (s *Service) collectTables(ctx context.Context, path string, pages []int, password string) tableReport {
	log := logger.WithContext(ctx)
	report := tableReport{structured: make(map[string]int)}

	for _, ex := range s.extractors {
		found, err := ex.Extract(ctx, tabular.Request{Path: path, Pages: pages, Password: password})
		switch {
		case tabular.IsUnavailable(err):
			log.Debug().Err(err).Str("extractor", ex.Name()).Msg("Table extractor not available")
			continue
		case err != nil:
			log.Warn().Err(err).Str("extractor", ex.Name()).Msg("Table extraction failed")
			report.sections = append(report.sections, fmt.Sprintf("Error using %s: %s", ex.Name(), pdf.UserMessage(err)))
			continue
		case len(found) == 0:
			continue
		}

		report.structured[ex.Name()] = len(found)
		report.sections = append(report.sections, fmt.Sprintf("=== Tables extracted using %s ===", ex.Name()))
		for i, t := range found {
			report.sections = append(report.sections,
				fmt.Sprintf("\n--- Table %d (Page %d) ---", i+1, t.Page),
				fmt.Sprintf("Dimensions: %d rows × %d columns", t.Rows, t.Columns))
			if formatted := tables.FormatStructured(t); formatted != "" {
				report.sections = append(report.sections, formatted)
			}
		}
	}

	detected, err := s.detectFromText(ctx, path, pages, password)
	if err != nil {
		report.sections = append(report.sections, "Error in text-based table detection: "+pdf.UserMessage(err))
		return report
	}
	report.detected = len(detected)
	if len(detected) > 0 {
		report.sections = append(report.sections, "\n=== Tables detected from text analysis ===")
		for i, t := range detected {
			report.sections = append(report.sections, fmt.Sprintf("\n--- Table %d ---", i+1), t)
		}
	}
	return report
}

func (s *Service) detectFromText(ctx context.Context, path string, pages []int, password string) ([]string, error) {
	text, err := s.text.ExtractText(ctx, path, pdf.Options{Pages: pages, Password: password})
	if err != nil {
		return nil, err
	}

	content := text.Content()
	if limit := s.settings.MaxTableTextBytes; limit > 0 && len(content) > limit {
		s.log.Debug().
			Int("bytes", len(content)).
			Int("limit", limit).
			Msg("Truncating text before table detection")
		content = truncateAtLine(content, limit)
	}
	return s.detector.Detect(content), nil
}

// truncateAtLine cuts text to at most limit bytes, ending on a line boundary
// when one exists.
func truncateAtLine(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i >= 0 {
		return cut[:i]
	}
	return cut
}
