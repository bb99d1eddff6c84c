//go:build gosseract

package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const nativeName = "native"

// Native implements Engine with libtesseract linked through gosseract.
type Native struct {
	language string
}

// NewNative returns the linked libtesseract engine.
func NewNative(language string) Engine {
	if language == "" {
		language = "eng"
	}
	return &Native{language: language}
}

// Name implements Engine.
func (n *Native) Name() string { return nativeName }

// Available implements Engine. The library is linked in, so it always is.
func (n *Native) Available(ctx context.Context) bool { return true }

// Recognize implements Engine. gosseract clients are not safe for concurrent
// use, so each call gets its own.
func (n *Native) Recognize(ctx context.Context, imagePath string) (string, error) {
	const op = "Recognize"

	if err := ctx.Err(); err != nil {
		return "", WrapOCRError(nativeName, op, err, "")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(n.language); err != nil {
		return "", WrapOCRError(nativeName, op, err, "failed to set language")
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", WrapOCRError(nativeName, op, err, "failed to load image")
	}

	text, err := client.Text()
	if err != nil {
		return "", WrapOCRError(nativeName, op, ErrOCRFailed, err.Error())
	}
	return strings.TrimSpace(text), nil
}
