package tabular

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"pdftools/internal/logger"
	"pdftools/internal/pdf"
	"pdftools/internal/tables"
)

//go:embed extract_tables.py
var pdfplumberScript []byte

const pdfplumberName = "pdfplumber"

// lookPath and execCommand are replaced in tests.
var (
	lookPath    = exec.LookPath
	execCommand = exec.CommandContext
)

// Pdfplumber extracts tables by running pdfplumber in a Python interpreter.
type Pdfplumber struct {
	python string
	log    zerolog.Logger
}

// NewPdfplumber creates an extractor that runs the given interpreter.
func NewPdfplumber(python string) *Pdfplumber {
	if python == "" {
		python = "python3"
	}
	return &Pdfplumber{python: python, log: logger.WithComponent("pdfplumber")}
}

// Name implements Extractor.
func (p *Pdfplumber) Name() string { return pdfplumberName }

// Extract implements Extractor.
func (p *Pdfplumber) Extract(ctx context.Context, req Request) ([]tables.Structured, error) {
	const op = "Pdfplumber.Extract"

	if _, err := lookPath(p.python); err != nil {
		return nil, pdf.WrapError(op, pdf.ErrToolUnavailable, fmt.Sprintf("%s not found", p.python))
	}

	script, err := os.CreateTemp("", "extract_tables_*.py")
	if err != nil {
		return nil, pdf.WrapError(op, err, "failed to create script file")
	}
	defer func() {
		if rmErr := os.Remove(script.Name()); rmErr != nil {
			p.log.Warn().Err(rmErr).Str("script", script.Name()).Msg("Failed to remove temporary script")
		}
	}()
	if _, err := script.Write(pdfplumberScript); err != nil {
		script.Close()
		return nil, pdf.WrapError(op, err, "failed to write script file")
	}
	if err := script.Close(); err != nil {
		return nil, pdf.WrapError(op, err, "failed to write script file")
	}

	pagesArg := "null"
	if len(req.Pages) > 0 {
		encoded, err := json.Marshal(req.Pages)
		if err != nil {
			return nil, pdf.WrapError(op, err, "failed to encode page numbers")
		}
		pagesArg = string(encoded)
	}

	cmd := execCommand(ctx, p.python, script.Name(), req.Path, pagesArg)
	cmd.Env = append(cmd.Environ(), "PDF_PASSWORD="+req.Password)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.log.Debug().
		Str("python", p.python).
		Str("file", req.Path).
		Str("pages", pagesArg).
		Msg("Running pdfplumber")

	out, err := cmd.Output()
	if err != nil {
		return nil, pdf.WrapError(op, pdf.ErrExtractionFailed,
			fmt.Sprintf("python exited: %v: %s", err, strings.TrimSpace(stderr.String())))
	}

	found, err := parsePdfplumberOutput(out)
	if err != nil {
		return nil, pdf.WrapError(op, err, "")
	}
	return found, nil
}

type pdfplumberFailure struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type pdfplumberTable struct {
	Page       int         `json:"page"`
	TableIndex int         `json:"table_index"`
	Rows       int         `json:"rows"`
	Columns    int         `json:"columns"`
	Data       [][]*string `json:"data"`
}

// parsePdfplumberOutput decodes either a list of tables or an error object.
func parsePdfplumberOutput(out []byte) ([]tables.Structured, error) {
	trimmed := bytes.TrimSpace(out)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty output", pdf.ErrExtractionFailed)
	}

	if trimmed[0] == '{' {
		var failure pdfplumberFailure
		if err := json.Unmarshal(trimmed, &failure); err != nil {
			return nil, fmt.Errorf("%w: %v", pdf.ErrExtractionFailed, err)
		}
		if failure.Kind == "unavailable" {
			return nil, fmt.Errorf("%w: %s", pdf.ErrToolUnavailable, failure.Error)
		}
		return nil, fmt.Errorf("%w: %s", pdf.ErrExtractionFailed, failure.Error)
	}

	var raw []pdfplumberTable
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", pdf.ErrExtractionFailed, err)
	}

	found := make([]tables.Structured, 0, len(raw))
	for _, t := range raw {
		found = append(found, tables.Structured{
			Source:  pdfplumberName,
			Page:    t.Page,
			Index:   t.TableIndex,
			Rows:    t.Rows,
			Columns: t.Columns,
			Data:    derefCells(t.Data),
		})
	}
	return found, nil
}

func derefCells(rows [][]*string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				out[i][j] = *cell
			}
		}
	}
	return out
}

// IsUnavailable reports whether err means the extractor could not run at all.
func IsUnavailable(err error) bool {
	return errors.Is(err, pdf.ErrToolUnavailable)
}
