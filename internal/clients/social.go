package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Container status values reported by the graph API.
const (
	ContainerFinished   = "FINISHED"
	ContainerError      = "ERROR"
	ContainerInProgress = "IN_PROGRESS"
)

// GraphError carries the platform error code/subcode so callers can
// distinguish the transient "media not ready" publish failure.
type GraphError struct {
	Code    int    `json:"code"`
	Subcode int    `json:"error_subcode"`
	Message string `json:"message"`
	Body    string `json:"-"`
}

func (e *GraphError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("graph api error %d/%d: %s", e.Code, e.Subcode, e.Message)
}

// MediaNotReady reports the code/subcode pair the platform returns when
// a container is created but its media has not finished processing.
func (e *GraphError) MediaNotReady() bool {
	return e.Code == 9007 && e.Subcode == 2207027
}

type graphErrorEnvelope struct {
	Error GraphError `json:"error"`
}

type SocialClient struct {
	http *resty.Client
}

func NewSocialClient(baseURL string) *SocialClient {
	return &SocialClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(60 * time.Second),
	}
}

type idResponse struct {
	ID string `json:"id"`
}

// CreateContainer stages the image + caption as a media container and
// returns its id. The container must finish processing before publish.
func (c *SocialClient) CreateContainer(ctx context.Context, accountID, token, imageURL, caption string) (string, error) {
	var out idResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"image_url":    imageURL,
			"caption":      caption,
			"access_token": token,
		}).
		SetResult(&out).
		Post("/" + accountID + "/media")
	if err != nil {
		return "", fmt.Errorf("create container request: %w", err)
	}
	if resp.IsError() {
		return "", graphError(resp)
	}
	return out.ID, nil
}

type containerStatusResponse struct {
	StatusCode string `json:"status_code"`
	ID         string `json:"id"`
}

func (c *SocialClient) ContainerStatus(ctx context.Context, containerID, token string) (string, error) {
	var out containerStatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("fields", "status_code").
		SetQueryParam("access_token", token).
		SetResult(&out).
		Get("/" + containerID)
	if err != nil {
		return "", fmt.Errorf("container status request: %w", err)
	}
	if resp.IsError() {
		return "", graphError(resp)
	}
	return out.StatusCode, nil
}

func (c *SocialClient) PublishContainer(ctx context.Context, accountID, token, containerID string) (string, error) {
	var out idResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"creation_id":  containerID,
			"access_token": token,
		}).
		SetResult(&out).
		Post("/" + accountID + "/media_publish")
	if err != nil {
		return "", fmt.Errorf("publish request: %w", err)
	}
	if resp.IsError() {
		return "", graphError(resp)
	}
	return out.ID, nil
}

func graphError(resp *resty.Response) error {
	body := resp.String()
	var envelope graphErrorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error.Code != 0 {
		envelope.Error.Body = body
		return &envelope.Error
	}
	return &GraphError{Code: resp.StatusCode(), Message: body, Body: body}
}
