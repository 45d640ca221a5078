package repository

import (
	"context"
	"database/sql"
	"time"

	"starpost/internal/domain/review"
)

type postAttemptRepository struct {
	db DBTX
}

func NewPostAttemptRepository(db DBTX) PostAttemptRepository {
	return &postAttemptRepository{db: db}
}

const attemptColumns = `shop, review_id, rating, review_text, reviewer_name, product_title, image_url, posted_id, status, error_detail, attempted_at`

func (r *postAttemptRepository) Upsert(ctx context.Context, a *review.PostAttempt) error {
	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	a.ReviewText = review.TruncateText(a.ReviewText)
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO post_attempts (`+attemptColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (shop, review_id) DO UPDATE SET
            rating        = EXCLUDED.rating,
            review_text   = EXCLUDED.review_text,
            reviewer_name = EXCLUDED.reviewer_name,
            product_title = EXCLUDED.product_title,
            image_url     = EXCLUDED.image_url,
            posted_id     = EXCLUDED.posted_id,
            status        = EXCLUDED.status,
            error_detail  = EXCLUDED.error_detail,
            attempted_at  = EXCLUDED.attempted_at
    `,
		a.Shop,
		a.ReviewID,
		a.Rating,
		a.ReviewText,
		a.ReviewerName,
		a.ProductTitle,
		a.ImageURL,
		a.PostedID,
		a.Status,
		a.ErrorDetail,
		a.AttemptedAt,
	)
	return err
}

func (r *postAttemptRepository) Exists(ctx context.Context, shop, reviewID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (SELECT 1 FROM post_attempts WHERE shop = $1 AND review_id = $2)
    `, shop, reviewID).Scan(&exists)
	return exists, err
}

func (r *postAttemptRepository) ListFailed(ctx context.Context, shop string, limit int) ([]review.PostAttempt, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+attemptColumns+`
        FROM post_attempts
        WHERE shop = $1 AND status = $2
        ORDER BY attempted_at ASC
        LIMIT $3
    `, shop, review.StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *postAttemptRepository) CountSuccessSince(ctx context.Context, shop string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM post_attempts
        WHERE shop = $1 AND status = $2 AND attempted_at >= $3
    `, shop, review.StatusSuccess, since).Scan(&count)
	return count, err
}

func (r *postAttemptRepository) ListByShop(ctx context.Context, shop string, page, limit int) ([]review.PostAttempt, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM post_attempts WHERE shop = $1
    `, shop).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT `+attemptColumns+`
        FROM post_attempts
        WHERE shop = $1
        ORDER BY attempted_at DESC
        LIMIT $2 OFFSET $3
    `, shop, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attempts, err := scanAttempts(rows)
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

func (r *postAttemptRepository) DeleteByShop(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM post_attempts WHERE shop = $1`, shop)
	return err
}

func scanAttempts(rows *sql.Rows) ([]review.PostAttempt, error) {
	var attempts []review.PostAttempt
	for rows.Next() {
		var a review.PostAttempt
		if err := rows.Scan(
			&a.Shop,
			&a.ReviewID,
			&a.Rating,
			&a.ReviewText,
			&a.ReviewerName,
			&a.ProductTitle,
			&a.ImageURL,
			&a.PostedID,
			&a.Status,
			&a.ErrorDetail,
			&a.AttemptedAt,
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
