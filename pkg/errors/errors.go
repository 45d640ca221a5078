package starpost_errors

import "errors"

// Common errors
var (
	ErrNotFound           = errors.New("not found")
	ErrImageGeneration    = errors.New("image generation failed")
	ErrImageNotAccessible = errors.New("image not accessible")
)
