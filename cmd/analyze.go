package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"pdftools/internal/inspect"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [pdf-file]",
	Short: "Summarize the structure of a PDF",
	Long: `Report the size, page count, encryption and metadata of a PDF document,
followed by a text preview and the number of tables and images found.

Each section can be switched off. A failing section is reported inline and
does not stop the analysis.`,
	Example: `  # Full analysis
  pdftools analyze report.pdf

  # Skip image extraction
  pdftools analyze report.pdf --images=false`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addOutputFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("text", true, "Include a text preview")
	analyzeCmd.Flags().Bool("images", true, "Include image analysis")
	analyzeCmd.Flags().Bool("tables", true, "Include table detection")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	includeText, _ := cmd.Flags().GetBool("text")
	includeImages, _ := cmd.Flags().GetBool("images")
	includeTables, _ := cmd.Flags().GetBool("tables")

	return runOperation(cmd, "analyze", args[0], func(ctx context.Context, svc *inspect.Service, pdfPath, password string) (string, error) {
		return svc.Analyze(ctx, inspect.AnalyzeRequest{
			Path:          pdfPath,
			IncludeText:   includeText,
			IncludeImages: includeImages,
			IncludeTables: includeTables,
			Password:      password,
		})
	})
}
