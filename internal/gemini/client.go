package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"

	outputMIMEType = "image/png"
)

type Options struct {
	APIKey  string
	BaseURL string

	// Project and Location switch the client to Vertex AI, which is the only
	// backend that honours image seeds. APIKey is not used there.
	Project  string
	Location string

	TextModel  string
	ImageModel string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	models        *genai.Models
	textModel     string
	imageModel    string
	seedSupported bool
	logger        *slog.Logger
}

func New(ctx context.Context, opts Options) (*Client, error) {
	vertex := strings.TrimSpace(opts.Project) != ""
	if !vertex && strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = DefaultTextModel
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if vertex {
		// Vertex AI authenticates with application default credentials.
		cc = &genai.ClientConfig{
			Backend:    genai.BackendVertexAI,
			Project:    strings.TrimSpace(opts.Project),
			Location:   strings.TrimSpace(opts.Location),
			HTTPClient: opts.HTTPClient,
		}
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		models:        sdk.Models,
		textModel:     textModel,
		imageModel:    imageModel,
		seedSupported: vertex,
		logger:        logger,
	}, nil
}

// GenerateText sends one prompt with a system instruction and returns the
// response text as-is.
func (c *Client) GenerateText(ctx context.Context, systemInstruction, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	if strings.TrimSpace(systemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate text (%s): %w", c.textModel, err)
	}

	c.logger.Debug("text generated", "model", c.textModel, "candidates", len(resp.Candidates))
	return resp.Text(), nil
}

// GenerateImages requests exactly one PNG. An empty slice with a nil error
// means the service answered without an image (for example a safety filter).
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	cfg := imageConfig(req, c.seedSupported)
	if req.Seed != nil && cfg.Seed == nil {
		c.logger.Debug("seed not sent", "seed", *req.Seed, "backend_supports_seed", c.seedSupported)
	}

	resp, err := c.models.GenerateImages(ctx, c.imageModel, req.Prompt, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate image (%s): %w", c.imageModel, err)
	}

	return extractImages(resp, c.logger), nil
}

// imageConfig builds the per-image request. The Gemini API backend rejects
// the seed parameter, so it is only set when seedSupported.
func imageConfig(req ImageRequest, seedSupported bool) *genai.GenerateImagesConfig {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		OutputMIMEType:   outputMIMEType,
		AspectRatio:      req.AspectRatio,
		IncludeRAIReason: true,
	}
	if seedSupported {
		cfg.Seed = seedToPtrInt32(req.Seed)
	}
	return cfg
}

func extractImages(resp *genai.GenerateImagesResponse, logger *slog.Logger) []Image {
	if resp == nil {
		return nil
	}

	var out []Image
	for _, gen := range resp.GeneratedImages {
		if gen == nil {
			continue
		}
		if gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
			if gen.RAIFilteredReason != "" {
				logger.Warn("image filtered", "reason", gen.RAIFilteredReason)
			}
			continue
		}
		mimeType := gen.Image.MIMEType
		if mimeType == "" {
			mimeType = outputMIMEType
		}
		out = append(out, Image{Data: gen.Image.ImageBytes, MIMEType: mimeType})
	}
	return out
}

// seedToPtrInt32 narrows the seed for the SDK. A seed outside the int32 range
// is dropped rather than wrapped into a different value.
func seedToPtrInt32(seed *int64) *int32 {
	if seed == nil || *seed < math.MinInt32 || *seed > math.MaxInt32 {
		return nil
	}
	v := int32(*seed)
	return &v
}
