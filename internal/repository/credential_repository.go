package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"starpost/internal/domain/credential"
	starpost_errors "starpost/pkg/errors"
)

type credentialRepository struct {
	db DBTX
}

func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetSocial(ctx context.Context, shop string) (credential.Social, error) {
	var c credential.Social
	err := r.db.QueryRowContext(ctx, `
        SELECT shop, access_token, account_id, handle, created_at, updated_at
        FROM social_credentials
        WHERE shop = $1
    `, shop).Scan(&c.Shop, &c.AccessToken, &c.AccountID, &c.Handle, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return credential.Social{}, starpost_errors.ErrNotFound
	}
	return c, err
}

func (r *credentialRepository) UpsertSocial(ctx context.Context, c *credential.Social) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO social_credentials (shop, access_token, account_id, handle, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (shop) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            account_id   = EXCLUDED.account_id,
            handle       = EXCLUDED.handle,
            updated_at   = EXCLUDED.updated_at
    `, c.Shop, c.AccessToken, c.AccountID, c.Handle, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *credentialRepository) DeleteSocial(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM social_credentials WHERE shop = $1`, shop)
	return err
}

func (r *credentialRepository) GetReviewSource(ctx context.Context, shop string) (credential.ReviewSource, error) {
	var c credential.ReviewSource
	err := r.db.QueryRowContext(ctx, `
        SELECT shop, access_token, created_at, updated_at
        FROM review_source_credentials
        WHERE shop = $1
    `, shop).Scan(&c.Shop, &c.AccessToken, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return credential.ReviewSource{}, starpost_errors.ErrNotFound
	}
	return c, err
}

func (r *credentialRepository) UpsertReviewSource(ctx context.Context, c *credential.ReviewSource) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO review_source_credentials (shop, access_token, created_at, updated_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (shop) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            updated_at   = EXCLUDED.updated_at
    `, c.Shop, c.AccessToken, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *credentialRepository) DeleteReviewSource(ctx context.Context, shop string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM review_source_credentials WHERE shop = $1`, shop)
	return err
}

func (r *credentialRepository) ListShopsWithReviewSource(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT shop FROM review_source_credentials ORDER BY shop ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []string
	for rows.Next() {
		var shop string
		if err := rows.Scan(&shop); err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}

// DeleteByShop removes every credential for a shop. Used by the
// uninstall webhook together with PostAttemptRepository.DeleteByShop.
func (r *credentialRepository) DeleteByShop(ctx context.Context, shop string) error {
	return WithTx(ctx, r.db, func(tx DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM social_credentials WHERE shop = $1`, shop); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM review_source_credentials WHERE shop = $1`, shop)
		return err
	})
}
