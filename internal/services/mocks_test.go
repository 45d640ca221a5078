package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
	starpost_errors "starpost/pkg/errors"
)

type mockAttemptRepo struct {
	mu           sync.Mutex
	rows         map[string]review.PostAttempt
	upsertErr    error
	listFailedFn func(shop string, limit int) ([]review.PostAttempt, error)
	countFn      func(shop string, since time.Time) (int, error)
}

func newMockAttemptRepo() *mockAttemptRepo {
	return &mockAttemptRepo{rows: map[string]review.PostAttempt{}}
}

func attemptKey(shop, reviewID string) string {
	return shop + "|" + reviewID
}

func (m *mockAttemptRepo) Upsert(_ context.Context, a *review.PostAttempt) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[attemptKey(a.Shop, a.ReviewID)] = *a
	return nil
}

func (m *mockAttemptRepo) Exists(_ context.Context, shop, reviewID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[attemptKey(shop, reviewID)]
	return ok, nil
}

func (m *mockAttemptRepo) ListFailed(_ context.Context, shop string, limit int) ([]review.PostAttempt, error) {
	if m.listFailedFn != nil {
		return m.listFailedFn(shop, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed []review.PostAttempt
	for _, a := range m.rows {
		if a.Shop == shop && a.Status == review.StatusFailed {
			failed = append(failed, a)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].AttemptedAt.Before(failed[j].AttemptedAt) })
	if len(failed) > limit {
		failed = failed[:limit]
	}
	return failed, nil
}

func (m *mockAttemptRepo) CountSuccessSince(_ context.Context, shop string, since time.Time) (int, error) {
	if m.countFn != nil {
		return m.countFn(shop, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, a := range m.rows {
		if a.Shop == shop && a.Status == review.StatusSuccess && !a.AttemptedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockAttemptRepo) ListByShop(_ context.Context, shop string, page, limit int) ([]review.PostAttempt, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var attempts []review.PostAttempt
	for _, a := range m.rows {
		if a.Shop == shop {
			attempts = append(attempts, a)
		}
	}
	return attempts, int64(len(attempts)), nil
}

func (m *mockAttemptRepo) DeleteByShop(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, a := range m.rows {
		if a.Shop == shop {
			delete(m.rows, k)
		}
	}
	return nil
}

func (m *mockAttemptRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *mockAttemptRepo) get(shop, reviewID string) (review.PostAttempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[attemptKey(shop, reviewID)]
	return a, ok
}

type mockCredRepo struct {
	socials map[string]credential.Social
	sources map[string]credential.ReviewSource
	listFn  func(ctx context.Context) ([]string, error)
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

func (m *mockCredRepo) ListShopsWithReviewSource(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	shops := make([]string, 0, len(m.sources))
	for shop := range m.sources {
		shops = append(shops, shop)
	}
	sort.Strings(shops)
	return shops, nil
}

func (m *mockCredRepo) DeleteByShop(_ context.Context, shop string) error {
	delete(m.socials, shop)
	delete(m.sources, shop)
	return nil
}

type mockFetcher struct {
	fetchFn func(ctx context.Context, shop, token string, since time.Time, pageSize int) ([]review.Review, error)
	calls   int
}

func (m *mockFetcher) FetchRecent(ctx context.Context, shop, token string, since time.Time, pageSize int) ([]review.Review, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, shop, token, since, pageSize)
	}
	return nil, nil
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

type fakePlanLookup struct {
	plan string
	err  error
}

func (f *fakePlanLookup) CurrentPlan(context.Context, string) (string, error) {
	return f.plan, f.err
}

type fakePlanCache struct {
	values map[string]string
	getErr error
}

func newFakePlanCache() *fakePlanCache {
	return &fakePlanCache{values: map[string]string{}}
}

func (f *fakePlanCache) Get(_ context.Context, shop string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[shop], nil
}

func (f *fakePlanCache) Set(_ context.Context, shop, plan string) error {
	f.values[shop] = plan
	return nil
}

type mockPipeline struct {
	generateFn func(ctx context.Context, data ReviewData) (string, bool)
}

func (m *mockPipeline) Generate(ctx context.Context, data ReviewData) (string, bool) {
	if m.generateFn != nil {
		return m.generateFn(ctx, data)
	}
	return "", false
}

type mockVerifier struct {
	reachable bool
	checked   []string
}

func (m *mockVerifier) WaitReachable(_ context.Context, url string) bool {
	m.checked = append(m.checked, url)
	return m.reachable
}

type mockPublisher struct {
	publishFn func(ctx context.Context, accountID, token, imageURL, caption string) (string, error)
	calls     int
}

func (m *mockPublisher) Publish(ctx context.Context, accountID, token, imageURL, caption string) (string, error) {
	m.calls++
	if m.publishFn != nil {
		return m.publishFn(ctx, accountID, token, imageURL, caption)
	}
	return "", nil
}
