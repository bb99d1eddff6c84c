package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
	"pdftools/internal/server"
)

func TestHandleInspectError(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timed out"},
		{pdf.WrapError("ValidatePath", pdf.ErrNotFound, "/tmp/x.pdf"), "File not found: /tmp/x.pdf"},
		{pdf.WrapError("ExtractText", pdf.ErrCredentialInvalid, ""), "--password"},
		{ocr.ErrNoEngine, "no OCR engine available"},
		{pdf.ErrExtractionFailed, "corrupted"},
		{validatePageFlag([]int{0}), "page numbers must be at least 1"},
		{errors.New("boom"), "PDF processing failed: boom"},
	}
	for _, tt := range tests {
		got := handleInspectError(tt.err, log)
		if !strings.Contains(got.Error(), tt.want) {
			t.Errorf("handleInspectError(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
	if !errors.Is(validatePageFlag([]int{-1}), server.ErrInvalidArguments) {
		t.Error("validatePageFlag error does not match ErrInvalidArguments")
	}
}

func TestOutputResultsStdout(t *testing.T) {
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })

	if err := outputResults("read", "/tmp/report.pdf", "hello", time.Now(), outputOptions{}, zerolog.Nop()); err != nil {
		t.Fatalf("outputResults() error = %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestOutputResultsJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	opts := outputOptions{path: path, json: true}

	if err := outputResults("tables", "/tmp/report.pdf", "| a | b |", time.Now(), opts, zerolog.Nop()); err != nil {
		t.Fatalf("outputResults() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out CommandOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Command != "tables" || out.FileName != "report.pdf" || out.Result != "| a | b |" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestFormatOCRText(t *testing.T) {
	got := formatOCRText(OCROutput{
		FileName:           "scan.pdf",
		Engine:             "tesseract",
		ProcessingDuration: "1s",
		Images: []OCRImageEntry{
			{Name: "scan_1_Im0.png", Page: 1, Text: "Hello"},
			{Name: "scan_2_Im0.png", Page: 2, Error: "ocr: failed"},
		},
	})

	want := "=== OCR Results for scan.pdf ===\nEngine: tesseract\nImages processed: 2\nProcessing time: 1s\n" +
		"\n--- scan_1_Im0.png (Page 1) ---\nHello\n" +
		"\n--- scan_2_Im0.png (Page 2) ---\nOCR failed: ocr: failed"
	if got != want {
		t.Errorf("formatOCRText() =\n%s\nwant\n%s", got, want)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "read": false, "tables": false, "images": false, "analyze": false, "ocr": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
