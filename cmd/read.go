package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
)

var readCmd = &cobra.Command{
	Use:   "read [pdf-file]",
	Short: "Extract text content from a PDF",
	Long: `Extract the text of a PDF document page by page.

Documents without a text layer are passed to OCR when an engine is available
(OCR_ENGINE: auto, tesseract, vision, native or none). The report ends with a
metadata footer listing the page count, file size and file name.`,
	Example: `  # Read the first 10 pages (default)
  pdftools read report.pdf

  # Read up to 50 pages of an encrypted document
  pdftools read secret.pdf --max-pages 50 --password hunter2

  # Save the text as JSON
  pdftools read report.pdf --json -o report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	addOutputFlags(readCmd)
	readCmd.Flags().Int("max-pages", 0, "Maximum number of pages to extract (default: DEFAULT_MAX_PAGES)")
}

func runRead(cmd *cobra.Command, args []string) error {
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	return runOperation(cmd, "read", args[0], func(ctx context.Context, svc *inspect.Service, pdfPath, password string) (string, error) {
		return svc.ReadText(ctx, inspect.ReadRequest{Path: pdfPath, MaxPages: maxPages, Password: password})
	})
}
