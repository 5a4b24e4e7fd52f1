package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "OCR_ENGINES", "FETCH_TIMEOUT", "DB_DRIVER", "OCR_UPSCALE"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, []string{EnginePaddle, EngineTesseract}, cfg.OCREngines)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2.5, cfg.OCRUpscale)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_ENGINES", " Tesseract , ")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/aadhaar")

	cfg := LoadConfig()

	assert.Equal(t, []string{EngineTesseract}, cfg.OCREngines)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(1024), cfg.MaxImageBytes)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCREngines = []string{"vision"}
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.DBDriver = "mysql"
	assert.Error(t, cfg.Validate())
}
