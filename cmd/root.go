package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdftools/internal/config"
	"pdftools/internal/logger"
)

var version = "2.0.0"

// appConfig is set by Execute before any command runs.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "pdftools",
	Short: "PDF tools - text, table, image and structure extraction for PDF documents",
	Long: `pdftools reads PDF documents and reports their text, tables, images and
structure.

Run "pdftools serve" to expose the operations as Model Context Protocol tools
over stdio, or use the sub-commands directly from the shell.

Tables are found with text heuristics that need no external tools. When
python3 with pdfplumber is installed, or a Google Document AI processor is
configured, their structured tables are reported as well.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("pdftools executed without sub-command")

		fmt.Println("Welcome to pdftools!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with the loaded configuration.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
