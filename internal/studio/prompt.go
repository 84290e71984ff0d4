package studio

import (
	"fmt"
	"strings"
)

const briefSystemInstruction = `You are the art director of a brand illustration series.
Rewrite the brief you receive as ONE English paragraph of at most 40 words.
- Keep the character exactly as described so every image shows the same character.
- Reference the colour palette by its hex values.
- Add ambiance and composition hints (light, framing, mood).
Return the paragraph only. No lists, no quotes, no preamble.`

const storySystemInstruction = `You are a storyboard writer.
Split the theme you receive into a 6-part visual story.
Return exactly six lines, one scene per line, each a short visual description.
No numbering, no bullet points, no titles, no blank lines, no extra text.`

// BuildBriefPrompt interpolates the form fields into the fixed brief template.
func BuildBriefPrompt(in GenerationInputs) string {
	var b strings.Builder
	b.Grow(512)

	b.WriteString("BRIEF\n")
	writeField(&b, "Brand", in.Brand, "unspecified")
	writeField(&b, "Character", in.CharacterDescription, "unspecified")
	writeField(&b, "Palette", in.PaletteHex, "unspecified")
	writeField(&b, "Season", in.Season, "none")
	writeField(&b, "Scene", in.SceneDescription, "unspecified")

	localized := strings.TrimSpace(in.TitleLocalized)
	def := strings.TrimSpace(in.TitleDefault)
	switch {
	case localized != "" && def != "":
		b.WriteString(fmt.Sprintf("- Title: %s (%s)\n", localized, def))
	case localized != "":
		b.WriteString(fmt.Sprintf("- Title: %s\n", localized))
	case def != "":
		b.WriteString(fmt.Sprintf("- Title: %s\n", def))
	}

	b.WriteString("\nThe title is context only; never render text in the image.")
	return b.String()
}

func BuildStoryPrompt(theme string) string {
	return "THEME: " + strings.TrimSpace(theme)
}

func writeField(b *strings.Builder, name, value, fallback string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	b.WriteString(fmt.Sprintf("- %s: %s\n", name, value))
}
