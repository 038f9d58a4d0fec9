package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	LLM    LLMConfig
	OCR    OCRConfig
	Recon  ReconConfig
	Output OutputConfig
}

// LLMConfig holds completion-service configuration
type LLMConfig struct {
	BaseURL       string
	Model         string
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
	Seed          int64
	MaxRetries    int
	Timeout       time.Duration
}

// OCRConfig holds binaries and tuning for extraction and OCR
type OCRConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Mutool    string // secondary rasterizer; if empty -> "mutool"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	PSM           int    // 6 = uniform block of text
	OEM           int    // 3 = default engine
	Zoom          float64
}

// ReconConfig holds the tunable reconciliation thresholds
type ReconConfig struct {
	PriceAccuracyThreshold float64
	POAccuracyThreshold    float64
	SeverityDeviationPct   float64
	PenaltyWeight          float64
	AnomalyPenaltyPerItem  float64
	AnomalyPenaltyCap      float64
}

// OutputConfig holds artifact destinations
type OutputConfig struct {
	Dir      string
	DBPath   string
	XLSXPath string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		LLM: LLMConfig{
			BaseURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:         getEnv("OLLAMA_MODEL", "mistral:7b-instruct"),
			Temperature:   getEnvAsFloat("OLLAMA_TEMPERATURE", 0.1),
			TopP:          getEnvAsFloat("OLLAMA_TOP_P", 0.9),
			RepeatPenalty: getEnvAsFloat("OLLAMA_REPEAT_PENALTY", 1.1),
			Seed:          int64(getEnvAsInt("OLLAMA_SEED", 42)),
			MaxRetries:    getEnvAsInt("OLLAMA_MAX_RETRIES", 3),
			Timeout:       getEnvAsDuration("OLLAMA_TIMEOUT", 20*time.Minute),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Mutool:        getEnv("MUTOOL_BIN", "mutool"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			PSM:           getEnvAsInt("TESSERACT_PSM", 6),
			OEM:           getEnvAsInt("TESSERACT_OEM", 3),
			Zoom:          getEnvAsFloat("RASTER_ZOOM", 2.0),
		},
		Recon: ReconConfig{
			PriceAccuracyThreshold: getEnvAsFloat("PRICE_ACCURACY_THRESHOLD", 95.0),
			POAccuracyThreshold:    getEnvAsFloat("PO_ACCURACY_THRESHOLD", 90.0),
			SeverityDeviationPct:   getEnvAsFloat("SEVERITY_DEVIATION_PCT", 5.0),
			PenaltyWeight:          getEnvAsFloat("HEALTH_PENALTY_WEIGHT", 0.4),
			AnomalyPenaltyPerItem:  getEnvAsFloat("ANOMALY_PENALTY_PER_ITEM", 5.0),
			AnomalyPenaltyCap:      getEnvAsFloat("ANOMALY_PENALTY_CAP", 20.0),
		},
		Output: OutputConfig{
			Dir:      getEnv("OUTPUT_DIR", "./outputs"),
			DBPath:   getEnv("DB_PATH", "./outputs/runs.db"),
			XLSXPath: getEnv("XLSX_PATH", "./outputs/summary.xlsx"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
