package studio

import (
	"fmt"
	"strconv"
	"strings"
)

// AspectRatio is one of the three ratios the image endpoint is asked for.
type AspectRatio string

const (
	AspectSquare AspectRatio = "1:1"
	AspectWide   AspectRatio = "16:9"
	AspectTall   AspectRatio = "9:16"
)

var aspectNames = map[string]AspectRatio{
	"square": AspectSquare,
	"wide":   AspectWide,
	"tall":   AspectTall,
}

// ParseAspectRatio accepts a name (square, wide, tall) or the ratio itself.
func ParseAspectRatio(value string) (AspectRatio, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if ar, ok := aspectNames[v]; ok {
		return ar, nil
	}
	switch AspectRatio(v) {
	case AspectSquare, AspectWide, AspectTall:
		return AspectRatio(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAspect, value)
}

func (a AspectRatio) Name() string {
	switch a {
	case AspectSquare:
		return "Square"
	case AspectWide:
		return "Wide"
	case AspectTall:
		return "Tall"
	default:
		return string(a)
	}
}

// GenerationInputs is built fresh for every submission and dropped afterwards.
type GenerationInputs struct {
	Brand                string
	CharacterDescription string
	PaletteHex           string
	Season               string
	SceneDescription     string
	TitleLocalized       string
	TitleDefault         string
	NegativePrompt       string
	Seed                 *int64
}

// ImageRequestSpec describes one image of a batch. FinalPrompt is filled in
// right before dispatch.
type ImageRequestSpec struct {
	AspectRatio AspectRatio
	Label       string
	Seed        *int64
	Scene       string
	FinalPrompt string
}

// ParseSeed returns nil unless raw is a base-10 integer.
func ParseSeed(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

var seriesRatios = []AspectRatio{AspectSquare, AspectWide, AspectTall}

// SeriesSpecs returns one spec per fixed aspect ratio, all sharing the scene.
func SeriesSpecs(scene string, seed *int64) []ImageRequestSpec {
	specs := make([]ImageRequestSpec, 0, len(seriesRatios))
	for _, ar := range seriesRatios {
		specs = append(specs, ImageRequestSpec{
			AspectRatio: ar,
			Label:       ar.Name(),
			Seed:        seed,
			Scene:       scene,
		})
	}
	return specs
}

// StorySpecs returns one spec per cut, labelled Frame 1..N in order.
func StorySpecs(cuts []string, ar AspectRatio, seed *int64) []ImageRequestSpec {
	specs := make([]ImageRequestSpec, 0, len(cuts))
	for i, cut := range cuts {
		specs = append(specs, ImageRequestSpec{
			AspectRatio: ar,
			Label:       fmt.Sprintf("Frame %d", i+1),
			Seed:        seed,
			Scene:       cut,
		})
	}
	return specs
}

// ComposePrompt joins the brief, the per-item scene and the negative prompt.
// Empty parts are skipped together with their separator.
func ComposePrompt(brief, scene, negative string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(brief))
	if s := strings.TrimSpace(scene); s != "" {
		switch {
		case b.Len() == 0:
		case strings.HasSuffix(b.String(), "."):
			b.WriteString(" ")
		default:
			b.WriteString(". ")
		}
		b.WriteString(s)
	}
	if n := strings.TrimSpace(negative); n != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
	}
	return b.String()
}
