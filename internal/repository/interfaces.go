package repository

import (
	"context"
	"time"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
)

type PostAttemptRepository interface {
	// Upsert writes the attempt keyed by (shop, review_id), rewriting the
	// stored projection alongside status and error so the latest attempt
	// always wins.
	Upsert(ctx context.Context, a *review.PostAttempt) error
	Exists(ctx context.Context, shop, reviewID string) (bool, error)
	ListFailed(ctx context.Context, shop string, limit int) ([]review.PostAttempt, error)
	CountSuccessSince(ctx context.Context, shop string, since time.Time) (int, error)
	ListByShop(ctx context.Context, shop string, page, limit int) ([]review.PostAttempt, int64, error)
	DeleteByShop(ctx context.Context, shop string) error
}

type CredentialRepository interface {
	GetSocial(ctx context.Context, shop string) (credential.Social, error)
	UpsertSocial(ctx context.Context, c *credential.Social) error
	DeleteSocial(ctx context.Context, shop string) error

	GetReviewSource(ctx context.Context, shop string) (credential.ReviewSource, error)
	UpsertReviewSource(ctx context.Context, c *credential.ReviewSource) error
	DeleteReviewSource(ctx context.Context, shop string) error

	ListShopsWithReviewSource(ctx context.Context) ([]string, error)
	DeleteByShop(ctx context.Context, shop string) error
}
