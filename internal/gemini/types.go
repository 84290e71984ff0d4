package gemini

// ImageRequest asks for a single image.
type ImageRequest struct {
	Prompt      string
	AspectRatio string
	Seed        *int64
}

type Image struct {
	Data     []byte
	MIMEType string
}
