package studio

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"
)

// Entry is one rendered result: the image, its label and the download name.
type Entry struct {
	Index    int           `json:"index"`
	Label    string        `json:"label"`
	MIMEType string        `json:"mime_type"`
	DataURL  string        `json:"image"`
	Filename string        `json:"filename"`
	Delay    time.Duration `json:"-"`
	DelayMS  int64         `json:"delay_ms"`
	Data     []byte        `json:"-"`
}

var slugSeparators = regexp.MustCompile(`[\s/]+`)

// Slug lowercases label and replaces every run of whitespace or slashes with a hyphen.
func Slug(label string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "-")
}

// Render builds entries in input order. The stagger grows by one step per
// rendered entry and only affects presentation.
func Render(items []Generated, stagger time.Duration) []Entry {
	entries := make([]Entry, 0, len(items))
	for pos, it := range items {
		mimeType := it.Image.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		delay := time.Duration(pos) * stagger
		entries = append(entries, Entry{
			Index:    it.Index,
			Label:    it.Spec.Label,
			MIMEType: mimeType,
			DataURL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(it.Image.Data),
			Filename: Slug(it.Spec.Label) + ".png",
			Delay:    delay,
			DelayMS:  delay.Milliseconds(),
			Data:     it.Image.Data,
		})
	}
	return entries
}
