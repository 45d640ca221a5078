package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PlanClient looks up a shop's current subscription plan name. This is
// the authoritative half of the two-source plan resolution; the quota
// manager caches the result and falls back to the cache on failure.
type PlanClient struct {
	http *resty.Client
}

func NewPlanClient(baseURL string) *PlanClient {
	return &PlanClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15 * time.Second),
	}
}

type planResponse struct {
	Plan string `json:"plan"`
}

func (c *PlanClient) CurrentPlan(ctx context.Context, shop string) (string, error) {
	var out planResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("shop", shop).
		SetResult(&out).
		Get("/plan")
	if err != nil {
		return "", fmt.Errorf("plan lookup request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("plan lookup returned %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Plan, nil
}
