// Package form maps raw form fields onto studio inputs. The web form, the bot
// draft and the CLI flags all go through the same field names.
package form

import (
	"fmt"
	"sort"
	"strings"

	"brand-visual-studio/internal/studio"
)

const (
	FieldBrand          = "brand"
	FieldCharacter      = "character"
	FieldPalette        = "palette"
	FieldSeason         = "season"
	FieldScene          = "scene"
	FieldTitleLocalized = "title_localized"
	FieldTitleDefault   = "title_default"
	FieldNegative       = "negative"
	FieldSeed           = "seed"
	FieldTheme          = "theme"
	FieldAspectRatio    = "aspect_ratio"
)

// Fields lists the canonical names in display order.
var Fields = []string{
	FieldBrand,
	FieldCharacter,
	FieldPalette,
	FieldSeason,
	FieldScene,
	FieldTitleLocalized,
	FieldTitleDefault,
	FieldNegative,
	FieldSeed,
	FieldTheme,
	FieldAspectRatio,
}

var aliases = map[string]string{
	"char":        FieldCharacter,
	"colors":      FieldPalette,
	"colours":     FieldPalette,
	"hex":         FieldPalette,
	"title":       FieldTitleLocalized,
	"title_local": FieldTitleLocalized,
	"title_en":    FieldTitleDefault,
	"neg":         FieldNegative,
	"ar":          FieldAspectRatio,
	"aspect":      FieldAspectRatio,
	"ratio":       FieldAspectRatio,
}

// Getter returns the raw value of a canonical field, "" when absent.
type Getter func(name string) string

// Canonical resolves a field name or alias. Hyphens and case are ignored.
func Canonical(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if mapped, ok := aliases[key]; ok {
		return mapped, true
	}
	for _, f := range Fields {
		if f == key {
			return f, true
		}
	}
	return "", false
}

// Inputs reads the shared generation fields. Values are passed through as
// entered; only the seed is parsed.
func Inputs(get Getter) studio.GenerationInputs {
	return studio.GenerationInputs{
		Brand:                get(FieldBrand),
		CharacterDescription: get(FieldCharacter),
		PaletteHex:           get(FieldPalette),
		Season:               get(FieldSeason),
		SceneDescription:     get(FieldScene),
		TitleLocalized:       get(FieldTitleLocalized),
		TitleDefault:         get(FieldTitleDefault),
		NegativePrompt:       get(FieldNegative),
		Seed:                 studio.ParseSeed(get(FieldSeed)),
	}
}

// StoryRequest reads the story form: the shared inputs plus theme and ratio.
func StoryRequest(get Getter) studio.StoryRequest {
	return studio.StoryRequest{
		Theme:       get(FieldTheme),
		AspectRatio: get(FieldAspectRatio),
		Inputs:      Inputs(get),
	}
}

// ParseStoryArgs splits "/story" arguments into the theme and an optional
// ar=<ratio> token. The token may appear anywhere; everything else is theme.
func ParseStoryArgs(raw string) (theme, aspect string) {
	var words []string
	for _, tok := range strings.Fields(raw) {
		name, value, ok := strings.Cut(tok, "=")
		if ok {
			if field, known := Canonical(name); known && field == FieldAspectRatio {
				aspect = strings.TrimSpace(value)
				continue
			}
		}
		words = append(words, tok)
	}
	return strings.Join(words, " "), aspect
}

// ParseAssignment parses "field value..." (or "field=value...") as typed after /set.
func ParseAssignment(raw string) (field, value string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("expected <field> <value>")
	}

	name, rest, found := strings.Cut(raw, " ")
	if eq := strings.Index(name, "="); eq >= 0 {
		rest = name[eq+1:] + " " + rest
		name = name[:eq]
		found = true
	}
	field, ok := Canonical(name)
	if !ok {
		return "", "", fmt.Errorf("unknown field %q", name)
	}
	if !found {
		rest = ""
	}
	return field, strings.TrimSpace(rest), nil
}

// Values is a Getter over a plain map; missing keys read as "".
type Values map[string]string

func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// Keys returns the set field names, sorted.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k, val := range v {
		if strings.TrimSpace(val) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
