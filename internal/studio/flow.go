package studio

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"brand-visual-studio/internal/lifecycle"
)

// Result of a completed flow.
type Result struct {
	BatchID string
	Entries []Entry
	Skipped int
}

// StoryRequest carries the story-form fields next to the shared inputs.
type StoryRequest struct {
	Theme       string
	AspectRatio string
	Inputs      GenerationInputs
}

// Series derives one brief and renders it in every fixed aspect ratio.
func (s *Studio) Series(ctx context.Context, key string, in GenerationInputs, r Renderer) (Result, error) {
	return s.run(ctx, key, "series", r, func(ctx context.Context, logger *slog.Logger) ([]Generated, int, error) {
		brief, err := s.NormalizeBrief(ctx, in)
		if err != nil {
			return nil, 0, err
		}
		logger.Debug("visual brief ready", "brief", brief)

		return s.FanOut(ctx, logger, brief, in.NegativePrompt, SeriesSpecs(in.SceneDescription, in.Seed))
	})
}

// Story expands the theme into cuts and renders one frame per cut, all
// sharing one brief. Missing theme or character fails before any call.
func (s *Studio) Story(ctx context.Context, key string, req StoryRequest, r Renderer) (Result, error) {
	if s.tracker.State(key) == lifecycle.Loading {
		return Result{}, lifecycle.ErrBusy
	}

	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		r.Failure(MissingThemeMessage)
		return Result{}, ErrMissingTheme
	}
	if strings.TrimSpace(req.Inputs.CharacterDescription) == "" {
		r.Failure(MissingCharMessage)
		return Result{}, ErrMissingCharacter
	}

	ar := AspectSquare
	if strings.TrimSpace(req.AspectRatio) != "" {
		parsed, err := ParseAspectRatio(req.AspectRatio)
		if err != nil {
			r.Failure(InvalidAspectMessage)
			return Result{}, err
		}
		ar = parsed
	}

	in := req.Inputs
	in.SceneDescription = theme

	return s.run(ctx, key, "story", r, func(ctx context.Context, logger *slog.Logger) ([]Generated, int, error) {
		cuts, err := s.ExpandStory(ctx, theme)
		if err != nil {
			return nil, 0, err
		}
		logger.Info("story expanded", "cuts", len(cuts))

		brief, err := s.NormalizeBrief(ctx, in)
		if err != nil {
			return nil, 0, err
		}
		logger.Debug("visual brief ready", "brief", brief)

		return s.FanOut(ctx, logger, brief, in.NegativePrompt, StorySpecs(cuts, ar, in.Seed))
	})
}

type batchFunc func(ctx context.Context, logger *slog.Logger) ([]Generated, int, error)

// run owns the lifecycle of one submission: Idle -> Loading -> Success|Error -> Idle.
// A busy session is rejected without touching the renderer.
func (s *Studio) run(ctx context.Context, key, flow string, r Renderer, fn batchFunc) (Result, error) {
	batchID := uuid.NewString()
	logger := s.logger.With("flow", flow, "batch_id", batchID, "session", key)

	if err := s.tracker.Begin(key); err != nil {
		logger.Warn("submission rejected", "state", lifecycle.Loading.String())
		return Result{BatchID: batchID}, err
	}
	defer s.tracker.End(key)

	logger.Debug("state change", "from", lifecycle.Idle.String(), "to", lifecycle.Loading.String())
	r.Loading()

	items, skipped, err := fn(ctx, logger)
	if err != nil {
		logger.Error("generation failed", "err", err)
		logger.Debug("state change", "from", lifecycle.Loading.String(), "to", lifecycle.Error.String())
		r.Failure(GenericErrorMessage)
		return Result{BatchID: batchID}, err
	}

	entries := Render(items, s.stagger)
	logger.Info("batch completed", "rendered", len(entries), "skipped", skipped)
	logger.Debug("state change", "from", lifecycle.Loading.String(), "to", lifecycle.Success.String())
	r.Results(entries)

	return Result{BatchID: batchID, Entries: entries, Skipped: skipped}, nil
}
