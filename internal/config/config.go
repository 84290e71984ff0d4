package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
	DefaultWebAddr    = ":8080"
	DefaultLocation   = "us-central1"
)

type Config struct {
	GeminiAPIKey  string
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4 bool
	WebAddr    string

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration

	GeminiBaseURL string
	TextModel     string
	ImageModel    string

	// A non-empty project selects the Vertex AI backend, which authenticates
	// with application default credentials instead of GeminiAPIKey.
	GCPProject  string
	GCPLocation string

	// ImageRatePerSecond paces image dispatch inside one batch; 0 means unlimited.
	ImageRatePerSecond float64
	ResultStagger      time.Duration
}

// Load reads the process configuration from the environment. Every front end
// needs a credential: the Gemini key, or a GCP project for Vertex AI.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:           strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:              getEnvBool("DEBUG", false),
		PreferIPv4:         getEnvBool("PREFER_IPV4", true),
		WebAddr:            getEnv("WEB_ADDR", DefaultWebAddr),
		MaxConcurrent:      getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", ""),
		TextModel:          getEnv("TEXT_MODEL", DefaultTextModel),
		ImageModel:         getEnv("IMAGE_MODEL", DefaultImageModel),
		GCPProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GCPLocation:        getEnv("GOOGLE_CLOUD_LOCATION", DefaultLocation),
		ImageRatePerSecond: getEnvFloat("IMAGE_RATE_PER_SECOND", 0),
		ResultStagger:      time.Duration(getEnvInt("RESULT_STAGGER_MS", 120)) * time.Millisecond,
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	if cfg.GeminiAPIKey == "" && cfg.GCPProject == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required (or GOOGLE_CLOUD_PROJECT for Vertex AI)")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.ImageRatePerSecond < 0 {
		cfg.ImageRatePerSecond = 0
	}
	if cfg.ResultStagger < 0 {
		cfg.ResultStagger = 0
	}

	return cfg, nil
}

// RequireTelegram is checked by the bot only; web and CLI run without a token.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
