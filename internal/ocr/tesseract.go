package ocr

import (
	"context"
	"os/exec"
	"strings"
)

const tesseractName = "tesseract"

// lookPath and execCommand are replaced in tests.
var (
	lookPath    = exec.LookPath
	execCommand = exec.CommandContext
)

// TesseractCLI implements Engine by running the tesseract binary.
type TesseractCLI struct {
	bin      string
	language string
}

// NewTesseractCLI creates an engine for the given binary and language.
func NewTesseractCLI(bin, language string) *TesseractCLI {
	if bin == "" {
		bin = tesseractName
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractCLI{bin: bin, language: language}
}

// Name implements Engine.
func (t *TesseractCLI) Name() string { return tesseractName }

// Available reports whether the binary is on PATH.
func (t *TesseractCLI) Available(ctx context.Context) bool {
	_, err := lookPath(t.bin)
	return err == nil
}

// Recognize runs tesseract on the image and returns its stdout.
func (t *TesseractCLI) Recognize(ctx context.Context, imagePath string) (string, error) {
	cmd := execCommand(ctx, t.bin, imagePath, "stdout", "-l", t.language)

	out, err := cmd.Output()
	if err != nil {
		details := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			details = strings.TrimSpace(string(exitErr.Stderr))
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", WrapOCRError(tesseractName, "Recognize", err, details)
	}

	return strings.TrimSpace(string(out)), nil
}
