package review

import "time"

// Review is a review as fetched from the external review source. It is
// never persisted verbatim; only the post-attempt projection is stored.
type Review struct {
	ID           string    `json:"id"`
	Rating       int       `json:"rating"`
	Body         string    `json:"body"`
	ReviewerName string    `json:"reviewer_name"`
	ProductTitle string    `json:"product_title"`
	Shop         string    `json:"shop"`
	CreatedAt    time.Time `json:"created_at"`
}

type AttemptStatus string

const (
	StatusSuccess AttemptStatus = "success"
	StatusFailed  AttemptStatus = "failed"
)

// MaxStoredTextLen bounds the review text stored on an attempt row.
const MaxStoredTextLen = 500

// PostAttempt is the single-slot ledger row for one (shop, review) pair.
// Re-attempts upsert the same row; there is exactly one row per pair.
type PostAttempt struct {
	Shop         string        `json:"shop"`
	ReviewID     string        `json:"review_id"`
	Rating       int           `json:"rating"`
	ReviewText   string        `json:"review_text"`
	ReviewerName string        `json:"reviewer_name"`
	ProductTitle string        `json:"product_title"`
	ImageURL     *string       `json:"image_url,omitempty"`
	PostedID     *string       `json:"posted_id,omitempty"`
	Status       AttemptStatus `json:"status"`
	ErrorDetail  *string       `json:"error_detail,omitempty"`
	AttemptedAt  time.Time     `json:"attempted_at"`
}

// Review reconstructs a Review from the stored projection so a failed
// attempt can be re-run through the posting procedure.
func (a PostAttempt) Review() Review {
	return Review{
		ID:           a.ReviewID,
		Rating:       a.Rating,
		Body:         a.ReviewText,
		ReviewerName: a.ReviewerName,
		ProductTitle: a.ProductTitle,
		Shop:         a.Shop,
	}
}

// TruncateText bounds text to MaxStoredTextLen runes.
func TruncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxStoredTextLen {
		return s
	}
	return string(runes[:MaxStoredTextLen])
}
