package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Aashish23092/aadhaar-autofill/logger"
)

// Supported OCR engines, in the order they appear in OCR_ENGINES.
const (
	EnginePaddle    = "paddle"
	EngineTesseract = "tesseract"
)

// Supported person stores.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort        string
	CORSAllowedOrigin string

	TesseractDataPath string
	TesseractLang     string
	OCREngines        []string
	OCRUpscale        float64
	PaddleAPIURL      string

	FetchTimeout  time.Duration
	MaxImageBytes int64

	DBDriver string
	DBURL    string

	LogLevel  string
	LogFormat string
	LogOutput string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),

		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		TesseractLang:     getEnv("TESSERACT_LANG", "eng"),
		OCREngines:        splitList(getEnv("OCR_ENGINES", EnginePaddle+","+EngineTesseract)),
		OCRUpscale:        getEnvAsFloat("OCR_UPSCALE", 2.5),
		PaddleAPIURL:      getEnv("PADDLEOCR_API_URL", "http://paddleocr:8866/predict/ocr_system"),

		FetchTimeout:  getEnvAsDuration("FETCH_TIMEOUT", 15*time.Second),
		MaxImageBytes: getEnvAsInt64("MAX_IMAGE_BYTES", 10*1024*1024), // 10 MB

		DBDriver: getEnv("DB_DRIVER", DriverSQLite),
		DBURL:    getEnv("DB_URL", "file:aadhaar.db?_pragma=busy_timeout(5000)"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if len(c.OCREngines) == 0 {
		return fmt.Errorf("OCR_ENGINES must name at least one engine")
	}
	for _, e := range c.OCREngines {
		if e != EnginePaddle && e != EngineTesseract {
			return fmt.Errorf("unknown OCR engine %q", e)
		}
	}
	if c.OCRUpscale <= 0 {
		return fmt.Errorf("OCR_UPSCALE must be positive")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	cfg := logger.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Format = c.LogFormat
	cfg.Output = c.LogOutput
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
