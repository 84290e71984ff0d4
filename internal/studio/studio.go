// Package studio turns form input into a batch of generated images: it derives
// a visual brief with one text call, fans out the image calls and renders the
// joined results for whichever front end is driving it.
package studio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"brand-visual-studio/internal/gemini"
	"brand-visual-studio/internal/lifecycle"
)

type TextGenerator interface {
	GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type ImageGenerator interface {
	GenerateImages(ctx context.Context, req gemini.ImageRequest) ([]gemini.Image, error)
}

// Renderer is the UI side of a flow. Loading clears previous results and any
// visible error; Results and Failure are mutually exclusive end states.
type Renderer interface {
	Loading()
	Results(entries []Entry)
	Failure(message string)
}

const DefaultStagger = 120 * time.Millisecond

type Options struct {
	Text    TextGenerator
	Images  ImageGenerator
	Tracker *lifecycle.Tracker

	// Limiter paces image dispatch within a batch. Nil means unlimited.
	Limiter *rate.Limiter
	Stagger time.Duration
	Logger  *slog.Logger
}

type Studio struct {
	text    TextGenerator
	images  ImageGenerator
	tracker *lifecycle.Tracker
	limiter *rate.Limiter
	stagger time.Duration
	logger  *slog.Logger
}

func New(opts Options) (*Studio, error) {
	if opts.Text == nil {
		return nil, errors.New("text generator is required")
	}
	if opts.Images == nil {
		return nil, errors.New("image generator is required")
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = lifecycle.New(lifecycle.Options{})
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	stagger := opts.Stagger
	if stagger < 0 {
		stagger = 0
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Studio{
		text:    opts.Text,
		images:  opts.Images,
		tracker: tracker,
		limiter: limiter,
		stagger: stagger,
		logger:  logger,
	}, nil
}

// NewLimiter converts a per-second rate into a limiter; 0 or less is unlimited.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (s *Studio) State(key string) lifecycle.State {
	return s.tracker.State(key)
}
