package studio

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"brand-visual-studio/internal/gemini"
)

type textCall struct {
	System string
	Prompt string
}

// fakeText answers story prompts with story and brief prompts with brief.
type fakeText struct {
	mu    sync.Mutex
	calls []textCall

	brief    string
	story    string
	briefErr error
	storyErr error
}

func (f *fakeText) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, textCall{System: systemInstruction, Prompt: prompt})
	f.mu.Unlock()

	if systemInstruction == storySystemInstruction {
		return f.story, f.storyErr
	}
	return f.brief, f.briefErr
}

func (f *fakeText) count(system string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.System == system {
			n++
		}
	}
	return n
}

type fakeImages struct {
	mu       sync.Mutex
	requests []gemini.ImageRequest

	generateFunc func(ctx context.Context, req gemini.ImageRequest) ([]gemini.Image, error)
}

func (f *fakeImages) GenerateImages(ctx context.Context, req gemini.ImageRequest) ([]gemini.Image, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.generateFunc != nil {
		return f.generateFunc(ctx, req)
	}
	return []gemini.Image{{Data: []byte("png:" + req.AspectRatio), MIMEType: "image/png"}}, nil
}

func (f *fakeImages) snapshot() []gemini.ImageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gemini.ImageRequest(nil), f.requests...)
}

// recordingRenderer mirrors a results grid and a single error element.
type recordingRenderer struct {
	events       []string
	results      []Entry
	message      string
	resultsShown bool
}

func (r *recordingRenderer) Loading() {
	r.events = append(r.events, "loading")
	r.results = nil
	r.message = ""
	r.resultsShown = false
}

func (r *recordingRenderer) Results(entries []Entry) {
	r.events = append(r.events, "results")
	r.results = entries
	r.message = ""
	r.resultsShown = true
}

func (r *recordingRenderer) Failure(message string) {
	r.events = append(r.events, "failure")
	r.message = message
	r.resultsShown = false
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
