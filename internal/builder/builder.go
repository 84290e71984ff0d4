// Package builder wires configuration into a ready studio. Every front end
// calls it the same way.
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"brand-visual-studio/internal/config"
	"brand-visual-studio/internal/gemini"
	"brand-visual-studio/internal/httpclient"
	"brand-visual-studio/internal/lifecycle"
	"brand-visual-studio/internal/studio"
)

// BuildStudio creates the HTTP client, the genai adapter and the studio on top.
func BuildStudio(ctx context.Context, cfg config.Config, logger *slog.Logger) (*studio.Studio, error) {
	hc := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	gc, err := gemini.New(ctx, gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Project:    cfg.GCPProject,
		Location:   cfg.GCPLocation,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		HTTPClient: hc,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	s, err := studio.New(studio.Options{
		Text:    gc,
		Images:  gc,
		Tracker: lifecycle.New(lifecycle.Options{TTL: cfg.RequestTimeout + lifecycle.DefaultTTL}),
		Limiter: studio.NewLimiter(cfg.ImageRatePerSecond),
		Stagger: cfg.ResultStagger,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init studio: %w", err)
	}
	return s, nil
}
