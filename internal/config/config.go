package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pdftools/internal/logger"
	"pdftools/internal/tables"
)

type Config struct {
	// Extraction limits
	DefaultMaxPages      int
	AnalyzeMaxPages      int
	LargeFileThresholdMB float64
	MaxTableTextBytes    int
	ToolTimeout          time.Duration

	// Table heuristics
	TableConsistencyThreshold float64
	TableFieldMinLength       int
	TableFieldMaxLength       int

	// External tools
	PythonBin      string
	TesseractBin   string
	OCREngine      string
	OCRLanguage    string
	OCRConcurrency int

	// Google Cloud Configuration
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// OCR engine selections.
const (
	OCREngineAuto      = "auto"
	OCREngineTesseract = "tesseract"
	OCREngineVision    = "vision"
	OCREngineNative    = "native"
	OCREngineNone      = "none"
)

func Load() (*Config, error) {
	config := &Config{
		DefaultMaxPages:            getEnvInt("DEFAULT_MAX_PAGES", 10),
		AnalyzeMaxPages:            getEnvInt("ANALYZE_MAX_PAGES", 5),
		LargeFileThresholdMB:       getEnvFloat("LARGE_FILE_THRESHOLD_MB", 50),
		MaxTableTextBytes:          getEnvInt("MAX_TABLE_TEXT_BYTES", 0),
		ToolTimeout:                getEnvDuration("TOOL_TIMEOUT", 5*time.Minute),
		TableConsistencyThreshold:  getEnvFloat("TABLE_CONSISTENCY_THRESHOLD", tables.DefaultConsistencyThreshold),
		TableFieldMinLength:        getEnvInt("TABLE_FIELD_MIN_LENGTH", tables.DefaultMinFieldLength),
		TableFieldMaxLength:        getEnvInt("TABLE_FIELD_MAX_LENGTH", tables.DefaultMaxFieldLength),
		PythonBin:                  getEnv("PYTHON_BIN", "python3"),
		TesseractBin:               getEnv("TESSERACT_BIN", "tesseract"),
		OCREngine:                  strings.ToLower(getEnv("OCR_ENGINE", OCREngineAuto)),
		OCRLanguage:                getEnv("OCR_LANGUAGE", "eng"),
		OCRConcurrency:             getEnvInt("OCR_CONCURRENCY", 4),
		GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		LogLevel:                   getEnv("LOG_LEVEL", "info"),
		LogFormat:                  getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                  getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment is unusable.
func Default() *Config {
	return &Config{
		DefaultMaxPages:           10,
		AnalyzeMaxPages:           5,
		LargeFileThresholdMB:      50,
		ToolTimeout:               5 * time.Minute,
		TableConsistencyThreshold: tables.DefaultConsistencyThreshold,
		TableFieldMinLength:       tables.DefaultMinFieldLength,
		TableFieldMaxLength:       tables.DefaultMaxFieldLength,
		PythonBin:                 "python3",
		TesseractBin:              "tesseract",
		OCREngine:                 OCREngineAuto,
		OCRLanguage:               "eng",
		OCRConcurrency:            4,
		GoogleCloudLocation:       "us",
		LogLevel:                  "info",
		LogFormat:                 "console",
		LogTimeFormat:             time.RFC3339,
		LogOutput:                 "stderr",
	}
}

func (c *Config) validate() error {
	if c.DefaultMaxPages < 1 {
		return fmt.Errorf("DEFAULT_MAX_PAGES must be at least 1")
	}
	if c.AnalyzeMaxPages < 1 {
		return fmt.Errorf("ANALYZE_MAX_PAGES must be at least 1")
	}
	if c.MaxTableTextBytes < 0 {
		return fmt.Errorf("MAX_TABLE_TEXT_BYTES must not be negative")
	}
	if c.TableConsistencyThreshold <= 0 || c.TableConsistencyThreshold > 1 {
		return fmt.Errorf("TABLE_CONSISTENCY_THRESHOLD must be in (0, 1]")
	}
	if c.TableFieldMinLength < 1 || c.TableFieldMaxLength < c.TableFieldMinLength {
		return fmt.Errorf("TABLE_FIELD_MIN_LENGTH must be at least 1 and not exceed TABLE_FIELD_MAX_LENGTH")
	}
	if c.OCRConcurrency < 1 {
		return fmt.Errorf("OCR_CONCURRENCY must be at least 1")
	}
	switch c.OCREngine {
	case OCREngineAuto, OCREngineTesseract, OCREngineVision, OCREngineNative, OCREngineNone:
	default:
		return fmt.Errorf("OCR_ENGINE must be one of auto, tesseract, vision, native, none")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// TableOptions returns the table heuristic parameters.
func (c *Config) TableOptions() tables.Options {
	return tables.Options{
		ConsistencyThreshold: c.TableConsistencyThreshold,
		MinFieldLength:       c.TableFieldMinLength,
		MaxFieldLength:       c.TableFieldMaxLength,
	}
}

// DocumentAIEnabled reports whether a Document AI processor is configured.
func (c *Config) DocumentAIEnabled() bool {
	return c.GoogleCloudProject != "" && c.DocumentAIProcessorID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}
