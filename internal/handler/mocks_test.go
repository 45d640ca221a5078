package handler

import (
	"context"
	"time"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
	starpost_errors "starpost/pkg/errors"
)

type mockCredRepo struct {
	socials map[string]credential.Social
	sources map[string]credential.ReviewSource
	deleted []string
}

func newMockCredRepo() *mockCredRepo {
	return &mockCredRepo{
		socials: map[string]credential.Social{},
		sources: map[string]credential.ReviewSource{},
	}
}

func (m *mockCredRepo) GetSocial(_ context.Context, shop string) (credential.Social, error) {
	c, ok := m.socials[shop]
	if !ok {
		return credential.Social{}, starpost_errors.ErrNotFound
	}
	return c, nil
}

func (m *mockCredRepo) UpsertSocial(_ context.Context, c *credential.Social) error {
	m.socials[c.Shop] = *c
	return nil
}

func (m *mockCredRepo) DeleteSocial(_ context.Context, shop string) error {
	delete(m.socials, shop)
	return nil
}

func (m *mockCredRepo) GetReviewSource(_ context.Context, shop string) (credential.ReviewSource, error) {
	c, ok := m.sources[shop]
	if !ok {
		return credential.ReviewSource{}, starpost_errors.ErrNotFound
	}
	return c, nil
}

func (m *mockCredRepo) UpsertReviewSource(_ context.Context, c *credential.ReviewSource) error {
	m.sources[c.Shop] = *c
	return nil
}

func (m *mockCredRepo) DeleteReviewSource(_ context.Context, shop string) error {
	delete(m.sources, shop)
	return nil
}

func (m *mockCredRepo) ListShopsWithReviewSource(context.Context) ([]string, error) {
	shops := make([]string, 0, len(m.sources))
	for shop := range m.sources {
		shops = append(shops, shop)
	}
	return shops, nil
}

func (m *mockCredRepo) DeleteByShop(_ context.Context, shop string) error {
	delete(m.socials, shop)
	delete(m.sources, shop)
	m.deleted = append(m.deleted, shop)
	return nil
}

type mockAttemptRepo struct {
	rows    map[string]review.PostAttempt
	deleted []string
}

func newMockAttemptRepo() *mockAttemptRepo {
	return &mockAttemptRepo{rows: map[string]review.PostAttempt{}}
}

func (m *mockAttemptRepo) Upsert(_ context.Context, a *review.PostAttempt) error {
	m.rows[a.Shop+"|"+a.ReviewID] = *a
	return nil
}

func (m *mockAttemptRepo) Exists(_ context.Context, shop, reviewID string) (bool, error) {
	_, ok := m.rows[shop+"|"+reviewID]
	return ok, nil
}

func (m *mockAttemptRepo) ListFailed(context.Context, string, int) ([]review.PostAttempt, error) {
	return nil, nil
}

func (m *mockAttemptRepo) CountSuccessSince(_ context.Context, shop string, _ time.Time) (int, error) {
	count := 0
	for _, a := range m.rows {
		if a.Shop == shop && a.Status == review.StatusSuccess {
			count++
		}
	}
	return count, nil
}

func (m *mockAttemptRepo) ListByShop(_ context.Context, shop string, page, limit int) ([]review.PostAttempt, int64, error) {
	var attempts []review.PostAttempt
	for _, a := range m.rows {
		if a.Shop == shop {
			attempts = append(attempts, a)
		}
	}
	return attempts, int64(len(attempts)), nil
}

func (m *mockAttemptRepo) DeleteByShop(_ context.Context, shop string) error {
	for k, a := range m.rows {
		if a.Shop == shop {
			delete(m.rows, k)
		}
	}
	m.deleted = append(m.deleted, shop)
	return nil
}

type mockPoster struct {
	postFn func(ctx context.Context, rev review.Review, cred credential.Social) error
	posted []review.Review
}

func (m *mockPoster) PostOne(ctx context.Context, rev review.Review, cred credential.Social) error {
	m.posted = append(m.posted, rev)
	if m.postFn != nil {
		return m.postFn(ctx, rev, cred)
	}
	return nil
}
