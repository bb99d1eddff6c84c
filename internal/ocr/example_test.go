package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pdftools/internal/ocr"
	"pdftools/internal/pdf"
)

// Example demonstrates recognizing the images of a scanned PDF.
func Example() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	images, err := pdf.ExtractImages(ctx, "scanned.pdf", "/tmp/scanned-images", nil, "")
	if err != nil {
		log.Fatalf("Failed to extract images: %v", err)
	}

	engine, err := ocr.Select(ctx, ocr.Engines(ocr.Settings{Mode: ocr.ModeAuto}))
	if err != nil {
		if errors.Is(err, pdf.ErrToolUnavailable) {
			log.Printf("Install tesseract or configure Google Cloud credentials for OCR")
			return
		}
		log.Fatal(err)
	}

	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}

	for _, res := range ocr.RecognizeAll(ctx, engine, paths, 4) {
		if res.Err != nil {
			log.Printf("OCR failed for %s: %v", res.Name, res.Err)
			continue
		}
		fmt.Printf("--- %s ---\n%s\n", res.Name, res.Text)
	}
}

// ExampleVision demonstrates using the Cloud Vision engine directly.
func ExampleVision() {
	ctx := context.Background()

	engine := ocr.NewVision()
	defer engine.Close()

	if !engine.Available(ctx) {
		log.Fatalf("Please set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")
	}

	text, err := engine.Recognize(ctx, "receipt.png")
	if err != nil {
		if errors.Is(err, ocr.ErrImageTooLarge) {
			log.Printf("Image is too large for the Vision API.")
			return
		}
		log.Fatalf("OCR failed: %v", err)
	}

	fmt.Println(text)
}
