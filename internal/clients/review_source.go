package clients

import (
	"context"
	"fmt"
	"time"

	"starpost/internal/domain/review"

	"github.com/go-resty/resty/v2"
)

// ReviewSourceClient queries the external review service. The API
// returns reviews newest-first.
type ReviewSourceClient struct {
	http *resty.Client
}

func NewReviewSourceClient(baseURL string) *ReviewSourceClient {
	return &ReviewSourceClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
	}
}

type reviewListResponse struct {
	Reviews []reviewPayload `json:"reviews"`
}

type reviewPayload struct {
	ID           string    `json:"id"`
	Rating       int       `json:"rating"`
	Body         string    `json:"body"`
	ReviewerName string    `json:"reviewer_name"`
	ProductTitle string    `json:"product_title"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *ReviewSourceClient) FetchRecent(ctx context.Context, shop, token string, since time.Time, pageSize int) ([]review.Review, error) {
	var out reviewListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"shop":          shop,
			"api_token":     token,
			"created_after": since.UTC().Format(time.RFC3339),
			"per_page":      fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&out).
		Get("/reviews")
	if err != nil {
		return nil, fmt.Errorf("review source request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("review source returned %d: %s", resp.StatusCode(), resp.String())
	}

	reviews := make([]review.Review, 0, len(out.Reviews))
	for _, p := range out.Reviews {
		reviews = append(reviews, review.Review{
			ID:           p.ID,
			Rating:       p.Rating,
			Body:         p.Body,
			ReviewerName: p.ReviewerName,
			ProductTitle: p.ProductTitle,
			Shop:         shop,
			CreatedAt:    p.CreatedAt,
		})
	}
	return reviews, nil
}
