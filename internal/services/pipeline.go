package services

import (
	"context"

	"starpost/internal/storage"
	"starpost/pkg/logger"
)

// imageGenerator is the slice of ImageGenClient the pipeline needs.
type imageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, string, error)
}

// Pipeline turns review data into a publicly reachable image URL:
// prompt -> image model -> optimize -> upload. It never propagates
// errors; every failure is logged and reported as ok=false.
type Pipeline struct {
	prompts  PromptStrategy
	imageGen imageGenerator
	uploader storage.Uploader
	logger   *logger.Logger

	// TargetSize and JPEGQuality control the optimize step.
	TargetSize  int
	JPEGQuality int
}

func NewPipeline(prompts PromptStrategy, imageGen imageGenerator, uploader storage.Uploader, l *logger.Logger) *Pipeline {
	return &Pipeline{
		prompts:     prompts,
		imageGen:    imageGen,
		uploader:    uploader,
		logger:      l,
		TargetSize:  1080,
		JPEGQuality: 85,
	}
}

func (p *Pipeline) Generate(ctx context.Context, data ReviewData) (string, bool) {
	prompt, err := p.prompts.BuildPrompt(ctx, data)
	if err != nil {
		p.logger.Errorf("image pipeline: prompt build failed: %s", err)
		return "", false
	}

	raw, mimeType, err := p.imageGen.Generate(ctx, prompt)
	if err != nil {
		p.logger.Errorf("image pipeline: image generation failed: %s", err)
		return "", false
	}

	payload := raw
	contentType := mimeType
	if optimized, err := OptimizeSquare(raw, p.TargetSize, p.JPEGQuality); err != nil {
		// Fall back to the raw payload rather than losing the post.
		p.logger.Warnf("image pipeline: optimize failed, uploading raw payload: %s", err)
	} else {
		payload = optimized
		contentType = "image/jpeg"
	}
	if contentType == "" {
		contentType = "image/png"
	}

	url, err := p.uploader.Upload(ctx, payload, contentType)
	if err != nil {
		p.logger.Errorf("image pipeline: upload failed: %s", err)
		return "", false
	}
	return url, true
}
