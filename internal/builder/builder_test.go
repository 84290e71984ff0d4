package builder

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-visual-studio/internal/config"
	"brand-visual-studio/internal/lifecycle"
)

func TestBuildStudio(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ok", func(t *testing.T) {
		s, err := BuildStudio(context.Background(), config.Config{
			GeminiAPIKey:  "key",
			GeminiBaseURL: "http://127.0.0.1:1",
			HTTPTimeout:   time.Second,
			TextModel:     config.DefaultTextModel,
			ImageModel:    config.DefaultImageModel,
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, lifecycle.Idle, s.State("anyone"))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := BuildStudio(context.Background(), config.Config{}, logger)
		assert.Error(t, err)
	})
}
