package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing api key is fatal", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("vertex project replaces the api key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "brand-studio")
		t.Setenv("GOOGLE_CLOUD_LOCATION", "europe-west4")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.GeminiAPIKey)
		assert.Equal(t, "brand-studio", cfg.GCPProject)
		assert.Equal(t, "europe-west4", cfg.GCPLocation)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", " key ")
		t.Setenv("TEXT_MODEL", "")
		t.Setenv("IMAGE_MODEL", "")
		t.Setenv("IMAGE_RATE_PER_SECOND", "")
		t.Setenv("RESULT_STAGGER_MS", "")
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		t.Setenv("GOOGLE_CLOUD_LOCATION", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.GCPProject)
		assert.Equal(t, DefaultLocation, cfg.GCPLocation)
		assert.Equal(t, "key", cfg.GeminiAPIKey)
		assert.Equal(t, DefaultTextModel, cfg.TextModel)
		assert.Equal(t, DefaultImageModel, cfg.ImageModel)
		assert.Zero(t, cfg.ImageRatePerSecond)
		assert.Equal(t, 120*time.Millisecond, cfg.ResultStagger)
	})

	t.Run("invalid numbers fall back and get clamped", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "key")
		t.Setenv("MAX_CONCURRENT", "0")
		t.Setenv("REQUEST_TIMEOUT_SECONDS", "abc")
		t.Setenv("IMAGE_RATE_PER_SECOND", "-2")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.MaxConcurrent)
		assert.Equal(t, 240*time.Second, cfg.RequestTimeout)
		assert.Zero(t, cfg.ImageRatePerSecond)
	})
}

func TestRequireTelegram(t *testing.T) {
	assert.Error(t, Config{}.RequireTelegram())
	assert.NoError(t, Config{TelegramToken: "t"}.RequireTelegram())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
