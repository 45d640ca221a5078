package credential

import "time"

// Social is the per-shop social platform credential. At most one per
// shop; written by the OAuth callback, read-only to the posting core.
type Social struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"-"`
	AccountID   string    `json:"account_id"`
	Handle      *string   `json:"handle,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewSource is the per-shop credential for the external review API.
type ReviewSource struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
