package httpdto

import "starpost/internal/domain/review"

// RunResponse is returned by POST /v1/posting/run.
type RunResponse struct {
	Outcome string `json:"outcome"`
}

// AttemptsResponse is the paged history view over the attempt ledger.
type AttemptsResponse struct {
	Attempts []review.PostAttempt `json:"attempts"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}

// StatusResponse is the dashboard connection + quota snapshot.
type StatusResponse struct {
	Shop                  string `json:"shop"`
	SocialConnected       bool   `json:"social_connected"`
	SocialHandle          string `json:"social_handle,omitempty"`
	ReviewSourceConnected bool   `json:"review_source_connected"`
	Plan                  string `json:"plan"`
	DailyUsed             int    `json:"daily_used"`
	DailyCap              int    `json:"daily_cap"`
	MonthlyUsed           int    `json:"monthly_used"`
	MonthlyCap            int    `json:"monthly_cap"` // 0 means unlimited
}

// WebhookReviewPayload is the body of the new-review webhook.
type WebhookReviewPayload struct {
	Shop   string `json:"shop" binding:"required"`
	Review struct {
		ID           string `json:"id" binding:"required"`
		Rating       int    `json:"rating"`
		Body         string `json:"body"`
		ReviewerName string `json:"reviewer_name"`
		ProductTitle string `json:"product_title"`
	} `json:"review" binding:"required"`
}

// UninstallPayload is the body of the app/uninstalled webhook.
type UninstallPayload struct {
	ShopDomain string `json:"shop_domain"`
	Shop       string `json:"shop"`
}
