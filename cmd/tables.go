package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [pdf-file]",
	Short: "Extract tables from a PDF",
	Long: `Find tables in a PDF document.

Structured extractors run first when they are available:
  pdfplumber   - requires python3 (PYTHON_BIN) with the pdfplumber package
  document-ai  - requires GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID

Text heuristics always run and need no external tools. Tune them with
TABLE_CONSISTENCY_THRESHOLD, TABLE_FIELD_MIN_LENGTH and TABLE_FIELD_MAX_LENGTH.`,
	Example: `  # Detect tables on every page
  pdftools tables statement.pdf

  # Restrict to pages 2 and 3
  pdftools tables statement.pdf --pages 2,3`,
	Args: cobra.ExactArgs(1),
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)

	addOutputFlags(tablesCmd)
	tablesCmd.Flags().IntSlice("pages", nil, "Page numbers to extract tables from (default: all pages)")
}

func runTables(cmd *cobra.Command, args []string) error {
	pages, _ := cmd.Flags().GetIntSlice("pages")

	return runOperation(cmd, "tables", args[0], func(ctx context.Context, svc *inspect.Service, pdfPath, password string) (string, error) {
		if err := validatePageFlag(pages); err != nil {
			return "", err
		}
		return svc.ExtractTables(ctx, inspect.TablesRequest{Path: pdfPath, Pages: pages, Password: password})
	})
}
