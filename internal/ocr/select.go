package ocr

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"pdftools/internal/logger"
)

// Engine selection modes.
const (
	ModeAuto      = "auto"
	ModeTesseract = "tesseract"
	ModeVision    = "vision"
	ModeNative    = "native"
	ModeNone      = "none"
)

// Settings configures engine selection.
type Settings struct {
	Mode         string
	TesseractBin string
	Language     string
}

// Engines returns the candidate engines for the mode, in preference order.
// Auto prefers the linked library, then the tesseract binary, then Vision.
func Engines(s Settings) []Engine {
	var engines []Engine
	add := func(e Engine) {
		if e != nil {
			engines = append(engines, e)
		}
	}

	switch s.Mode {
	case ModeNone:
	case ModeTesseract:
		add(NewTesseractCLI(s.TesseractBin, s.Language))
	case ModeVision:
		add(NewVision())
	case ModeNative:
		add(NewNative(s.Language))
	default:
		add(NewNative(s.Language))
		add(NewTesseractCLI(s.TesseractBin, s.Language))
		add(NewVision())
	}
	return engines
}

// Select returns the first available engine.
func Select(ctx context.Context, engines []Engine) (Engine, error) {
	for _, e := range engines {
		if e.Available(ctx) {
			return e, nil
		}
	}
	return nil, ErrNoEngine
}

// RecognizeAll runs the engine over every image with at most concurrency calls
// in flight. Failures are recorded per image; results keep the input order.
func RecognizeAll(ctx context.Context, engine Engine, images []string, concurrency int) []Result {
	log := logger.WithComponent("ocr")
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(images))
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range images {
		g.Go(func() error {
			res := Result{ImagePath: path, Name: filepath.Base(path)}
			if err := ctx.Err(); err != nil {
				res.Err = err
				results[i] = res
				return nil
			}

			start := time.Now()
			res.Text, res.Err = engine.Recognize(ctx, path)
			res.Duration = time.Since(start)
			if res.Err != nil {
				log.Warn().
					Err(res.Err).
					Str("engine", engine.Name()).
					Str("image", res.Name).
					Msg("OCR failed for image")
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}
