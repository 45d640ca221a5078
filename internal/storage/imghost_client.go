package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ImgHostClient uploads to a public image-hosting API. It is the
// lighter-weight alternative to the S3 backend; the contract is the
// same, bytes in, stable public URL out.
type ImgHostClient struct {
	http *resty.Client
	key  string
}

func NewImgHostClient(endpoint, apiKey string) (*ImgHostClient, error) {
	if endpoint == "" || apiKey == "" {
		return nil, errors.New("image host endpoint and key are required")
	}
	return &ImgHostClient{
		http: resty.New().
			SetBaseURL(endpoint).
			SetTimeout(60 * time.Second),
		key: apiKey,
	}, nil
}

type imgHostResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
}

func (c *ImgHostClient) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image payload")
	}

	var out imgHostResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.key).
		SetFormData(map[string]string{
			"image": base64.StdEncoding.EncodeToString(data),
			"name":  objectKey(contentType),
		}).
		SetResult(&out).
		Post("")
	if err != nil {
		return "", fmt.Errorf("image host request: %w", err)
	}
	if resp.IsError() || !out.Success || out.Data.URL == "" {
		return "", fmt.Errorf("image host returned %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Data.URL, nil
}
