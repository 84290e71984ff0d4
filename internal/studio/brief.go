package studio

import (
	"context"
	"fmt"
	"strings"
)

// NormalizeBrief turns the form fields into the visual brief shared by every
// image of a batch. The response is returned untrimmed and unchecked.
func (s *Studio) NormalizeBrief(ctx context.Context, in GenerationInputs) (string, error) {
	brief, err := s.text.GenerateText(ctx, briefSystemInstruction, BuildBriefPrompt(in))
	if err != nil {
		return "", fmt.Errorf("normalize brief: %w", err)
	}
	return brief, nil
}

// ExpandStory asks for a six-part storyboard and returns its non-blank lines.
// An empty storyboard is ErrEmptyStory.
func (s *Studio) ExpandStory(ctx context.Context, theme string) ([]string, error) {
	text, err := s.text.GenerateText(ctx, storySystemInstruction, BuildStoryPrompt(theme))
	if err != nil {
		return nil, fmt.Errorf("expand story: %w", err)
	}

	cuts := SplitCuts(text)
	if len(cuts) == 0 {
		return nil, ErrEmptyStory
	}
	return cuts, nil
}

func SplitCuts(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
