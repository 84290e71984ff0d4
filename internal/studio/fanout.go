package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"brand-visual-studio/internal/gemini"
)

// Generated is one image of a batch together with the spec that produced it.
type Generated struct {
	Index int
	Spec  ImageRequestSpec
	Image gemini.Image
}

// FanOut dispatches one image request per spec concurrently and joins on all
// of them. Any failed request fails the batch. A request that succeeds without
// an image is skipped and logged; the returned slice keeps input order.
func (s *Studio) FanOut(ctx context.Context, logger *slog.Logger, brief, negative string, specs []ImageRequestSpec) ([]Generated, int, error) {
	if logger == nil {
		logger = s.logger
	}

	for i := range specs {
		specs[i].FinalPrompt = ComposePrompt(brief, specs[i].Scene, negative)
	}

	slots := make([]*gemini.Image, len(specs))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, spec := range specs {
		eg.Go(func() error {
			if err := s.limiter.Wait(egCtx); err != nil {
				return err
			}

			itemLog := logger.With("index", i+1, "label", spec.Label, "aspect_ratio", string(spec.AspectRatio))
			itemLog.Debug("image request dispatched")

			start := time.Now()
			images, err := s.images.GenerateImages(egCtx, gemini.ImageRequest{
				Prompt:      spec.FinalPrompt,
				AspectRatio: string(spec.AspectRatio),
				Seed:        spec.Seed,
			})
			if err != nil {
				return fmt.Errorf("image %d (%s): %w", i+1, spec.Label, err)
			}
			if len(images) == 0 {
				itemLog.Warn("no image returned, skipping item")
				return nil
			}

			itemLog.Info("image generated", "duration", time.Since(start).Round(time.Millisecond))
			img := images[0]
			slots[i] = &img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]Generated, 0, len(specs))
	skipped := 0
	for i, img := range slots {
		if img == nil {
			skipped++
			continue
		}
		out = append(out, Generated{Index: i, Spec: specs[i], Image: *img})
	}
	return out, skipped, nil
}
