package clients

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNoImagePart = errors.New("no image part in model response")

// ImageGenClient calls the generative image model's generateContent
// endpoint and extracts the inline image payload from the response.
type ImageGenClient struct {
	http *resty.Client
	key  string
}

func NewImageGenClient(endpoint, apiKey string) *ImageGenClient {
	return &ImageGenClient{
		http: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(120 * time.Second),
		key: apiKey,
	}
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate renders prompt to image bytes. A response without an inline
// image part is an error; the pipeline treats it like any other failure.
func (c *ImageGenClient) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: "1:1"},
		},
	}

	var out generateContentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.key).
		SetBody(req).
		SetResult(&out).
		Post("")
	if err != nil {
		return nil, "", fmt.Errorf("image model request: %w", err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("image model returned %d: %s", resp.StatusCode(), resp.String())
	}

	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("decode image payload: %w", err)
			}
			return raw, p.InlineData.MimeType, nil
		}
	}
	return nil, "", ErrNoImagePart
}
