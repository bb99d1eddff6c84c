package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdftools/internal/pdf"
)

const previewLength = 500

// AnalyzeRequest selects which sections Analyze includes.
type AnalyzeRequest struct {
	Path          string
	IncludeText   bool
	IncludeImages bool
	IncludeTables bool
	Password      string
}

// Analyze summarizes the document. Section failures are reported inline.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	path, err := pdf.ValidatePath(req.Path)
	if err != nil {
		return "", err
	}
	size, err := pdf.FileSize(path, s.settings.LargeFileThresholdMB)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== PDF Structure Analysis ===\nFile: %s\nSize: %sMB\n", filepath.Base(path), formatMB(size.MB))

	if info, err := s.docs.Inspect(path, req.Password); err != nil {
		fmt.Fprintf(&b, "Structure Analysis Error: %s\n", pdf.UserMessage(err))
	} else {
		writeInfo(&b, info)
	}

	if req.IncludeText {
		text, err := s.ReadText(ctx, ReadRequest{Path: path, MaxPages: s.settings.AnalyzeMaxPages, Password: req.Password})
		if err != nil {
			fmt.Fprintf(&b, "\nText Analysis Error: %s\n", pdf.UserMessage(err))
		} else {
			fmt.Fprintf(&b, "\nText Content Preview:\n%s...\n", preview(text, previewLength))
		}
	}

	if req.IncludeTables {
		report := s.collectTables(ctx, path, nil, req.Password)
		fmt.Fprintf(&b, "\nTables Found: %d\n", report.detected)
		names := make([]string, 0, len(report.structured))
		for name := range report.structured {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "Tables Found (%s): %d\n", name, report.structured[name])
		}
	}

	if req.IncludeImages {
		count, err := s.countImages(ctx, path, req.Password)
		if err != nil {
			fmt.Fprintf(&b, "\nImage Analysis Error: %s\n", pdf.UserMessage(err))
		} else {
			fmt.Fprintf(&b, "\nImages Found: %d\n", count)
		}
	}

	return b.String(), nil
}

func writeInfo(b *strings.Builder, info *pdf.Info) {
	fmt.Fprintf(b, "Pages: %d\n", info.PageCount)
	encrypted := "no"
	if info.Encrypted {
		encrypted = "yes"
	}
	fmt.Fprintf(b, "Encrypted: %s\n", encrypted)

	for _, field := range []struct{ label, value string }{
		{"Title", info.Title},
		{"Author", info.Author},
		{"Creator", info.Creator},
		{"Producer", info.Producer},
	} {
		if field.value != "" {
			fmt.Fprintf(b, "%s: %s\n", field.label, field.value)
		}
	}
}

func (s *Service) countImages(ctx context.Context, path, password string) (int, error) {
	dir, err := os.MkdirTemp("", "pdf_analyze_*")
	if err != nil {
		return 0, pdf.WrapError("countImages", err, "failed to create temporary directory")
	}
	defer s.removeDir(dir)

	images, err := s.docs.ExtractImages(ctx, path, dir, nil, password)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

// preview returns the first n characters of text.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
