package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"pdftools/cmd"
	"pdftools/internal/config"
	"pdftools/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, cfgErr := loadConfig()

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	warnConfig(log, cfgErr)
	log.Debug().Msg("Starting pdftools")

	cmd.Execute(cfg)

	log.Debug().Msg("pdftools shutdown")
	os.Exit(0)
}

// loadConfig reads the configuration from the environment and falls back to the
// defaults when it is invalid. The error is returned for logging once the
// logger is set up.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Default(), err
	}
	return cfg, nil
}

func warnConfig(log zerolog.Logger, err error) {
	if err != nil {
		log.Warn().Err(err).Msg("Could not load configuration, using defaults")
	}
}
