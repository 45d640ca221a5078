package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Uploader stores image bytes and returns a stable public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// cacheControl keeps generated images cacheable for a year; they are
// immutable once written.
const cacheControl = "public, max-age=31536000"

func objectKey(contentType string) string {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	return fmt.Sprintf("reviews/%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
}
