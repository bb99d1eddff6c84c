package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
)

var imagesCmd = &cobra.Command{
	Use:   "images [pdf-file]",
	Short: "Extract images from a PDF, optionally with OCR",
	Long: `Extract the embedded images of a PDF document and list them per page.

With --ocr each image is passed to the first available OCR engine. Images are
written to a temporary directory unless --dir is given.`,
	Example: `  # List the images of a scanned document and recognize their text
  pdftools images scan.pdf --ocr

  # Keep the images of page 1
  pdftools images brochure.pdf --pages 1 --dir ./images`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	addOutputFlags(imagesCmd)
	imagesCmd.Flags().IntSlice("pages", nil, "Page numbers to extract images from (default: all pages)")
	imagesCmd.Flags().Bool("ocr", false, "Perform OCR on extracted images")
	imagesCmd.Flags().String("dir", "", "Directory to keep extracted images in")
}

func runImages(cmd *cobra.Command, args []string) error {
	pages, _ := cmd.Flags().GetIntSlice("pages")
	ocrEnabled, _ := cmd.Flags().GetBool("ocr")
	dir, _ := cmd.Flags().GetString("dir")

	return runOperation(cmd, "images", args[0], func(ctx context.Context, svc *inspect.Service, pdfPath, password string) (string, error) {
		if err := validatePageFlag(pages); err != nil {
			return "", err
		}
		return svc.ExtractImages(ctx, inspect.ImagesRequest{
			Path:      pdfPath,
			Pages:     pages,
			OCR:       ocrEnabled,
			Password:  password,
			OutputDir: dir,
		})
	})
}
