package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"starpost/internal/domain/credential"
	"starpost/internal/domain/review"
	"starpost/internal/repository"
	starpost_errors "starpost/pkg/errors"
	"starpost/pkg/logger"
)

type RunOutcome string

const (
	RunStarted RunOutcome = "started"
	RunQueued  RunOutcome = "queued"
)

// ShopResult summarizes one shop's pass through a sweep.
type ShopResult struct {
	Shop            string   `json:"shop"`
	Seen            int      `json:"reviews_seen"`
	New             int      `json:"new_reviews"`
	Posted          int      `json:"posted"`
	Failed          int      `json:"failed"`
	Skipped         int      `json:"skipped"`
	DailyLimitHit   bool     `json:"daily_limit_hit"`
	MonthlyLimitHit bool     `json:"monthly_limit_hit"`
	Errors          []string `json:"errors,omitempty"`
}

// reviewFetcher is the slice of ReviewSourceClient the sweeper needs.
type reviewFetcher interface {
	FetchRecent(ctx context.Context, shop, token string, since time.Time, pageSize int) ([]review.Review, error)
}

type reviewPoster interface {
	PostOne(ctx context.Context, rev review.Review, cred credential.Social) error
}

// runState guards sweep exclusivity. At most one sweep executes per
// process; requests arriving mid-sweep set rerun and are coalesced into
// one more full sweep after the current one.
type runState struct {
	mu      sync.Mutex
	running bool
	rerun   bool
}

// Sweeper is the orchestration entry point: retry failed attempts
// oldest-first, then post new qualifying reviews, per shop, under quota.
type Sweeper struct {
	creds    repository.CredentialRepository
	attempts repository.PostAttemptRepository
	quota    *QuotaManager
	source   reviewFetcher
	poster   reviewPoster
	logger   *logger.Logger

	state runState

	// PostDelay throttles consecutive posts within a shop.
	PostDelay time.Duration
	// Lookback bounds how far back new-review discovery reaches.
	Lookback time.Duration
	// PageSize is passed to the review source fetch.
	PageSize int
}

func NewSweeper(creds repository.CredentialRepository, attempts repository.PostAttemptRepository, quota *QuotaManager, source reviewFetcher, poster reviewPoster, l *logger.Logger) *Sweeper {
	return &Sweeper{
		creds:     creds,
		attempts:  attempts,
		quota:     quota,
		source:    source,
		poster:    poster,
		logger:    l,
		PostDelay: 2 * time.Second,
		Lookback:  48 * time.Hour,
		PageSize:  50,
	}
}

// RequestRun triggers a sweep. If one is already executing the request
// is coalesced: the running drain loop will run one more full sweep
// before releasing, no matter how many requests arrived meanwhile.
func (s *Sweeper) RequestRun() RunOutcome {
	s.state.mu.Lock()
	if s.state.running {
		s.state.rerun = true
		s.state.mu.Unlock()
		return RunQueued
	}
	s.state.running = true
	s.state.mu.Unlock()

	go s.drain()
	return RunStarted
}

func (s *Sweeper) drain() {
	for {
		s.state.mu.Lock()
		s.state.rerun = false
		s.state.mu.Unlock()

		s.SweepAll(context.Background())

		s.state.mu.Lock()
		if !s.state.rerun {
			s.state.running = false
			s.state.mu.Unlock()
			return
		}
		s.state.mu.Unlock()
	}
}

// SweepAll processes every shop with a review source credential,
// strictly sequentially. A failure in one shop never aborts the rest.
func (s *Sweeper) SweepAll(ctx context.Context) []ShopResult {
	shops, err := s.creds.ListShopsWithReviewSource(ctx)
	if err != nil {
		s.logger.Errorf("sweep: listing shops: %s", err)
		return nil
	}

	results := make([]ShopResult, 0, len(shops))
	for _, shop := range shops {
		results = append(results, s.runShop(ctx, shop))
	}
	s.logger.Infof("sweep complete: %d shops", len(results))
	return results
}

func (s *Sweeper) runShop(ctx context.Context, shop string) (result ShopResult) {
	result.Shop = shop
	defer func() {
		if r := recover(); r != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("panic: %v", r))
			s.logger.Errorf("sweep: panic processing %s: %v", shop, r)
		}
	}()

	if err := s.sweepShop(ctx, shop, &result); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, err.Error())
		s.logger.Errorf("sweep: shop %s: %s", shop, err)
	}
	return result
}

func (s *Sweeper) sweepShop(ctx context.Context, shop string, result *ShopResult) error {
	social, err := s.creds.GetSocial(ctx, shop)
	if errors.Is(err, starpost_errors.ErrNotFound) {
		s.logger.Infof("sweep: %s has no social account connected, skipping", shop)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading social credential: %w", err)
	}

	dailyUsed, err := s.quota.DailyUsed(ctx, shop)
	if err != nil {
		return fmt.Errorf("daily count: %w", err)
	}
	if dailyUsed >= s.quota.DailyCap {
		result.DailyLimitHit = true
		return nil
	}

	monthlyUsed, err := s.quota.MonthlyUsed(ctx, shop)
	if err != nil {
		return fmt.Errorf("monthly count: %w", err)
	}
	if monthlyCap := s.quota.MonthlyCap(ctx, shop); monthlyCap > 0 && monthlyUsed >= monthlyCap {
		result.MonthlyLimitHit = true
		return nil
	}

	budget := s.quota.PerRunCap
	if remaining := s.quota.DailyCap - dailyUsed; remaining < budget {
		budget = remaining
	}

	// Retry phase: failed rows first, oldest first. Budget burns on
	// every attempt regardless of outcome.
	failed, err := s.attempts.ListFailed(ctx, shop, budget)
	if err != nil {
		return fmt.Errorf("loading failed attempts: %w", err)
	}
	for i, attempt := range failed {
		if budget == 0 {
			break
		}
		if i > 0 {
			time.Sleep(s.PostDelay)
		}
		budget--
		if err := s.poster.PostOne(ctx, attempt.Review(), social); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Posted++
		}
	}
	if budget == 0 {
		return nil
	}

	// New-review phase. The source returns newest-first; reverse so the
	// oldest eligible review posts first.
	since := time.Now().Add(-s.Lookback)
	src, err := s.creds.GetReviewSource(ctx, shop)
	if err != nil {
		return fmt.Errorf("loading review source credential: %w", err)
	}
	reviews, err := s.source.FetchRecent(ctx, shop, src.AccessToken, since, s.PageSize)
	if err != nil {
		return fmt.Errorf("fetching reviews: %w", err)
	}
	result.Seen = len(reviews)

	var eligible []review.Review
	for _, rev := range reviews {
		if rev.Rating != 5 {
			continue
		}
		exists, err := s.attempts.Exists(ctx, shop, rev.ID)
		if err != nil {
			return fmt.Errorf("checking attempt for review %s: %w", rev.ID, err)
		}
		if exists {
			continue
		}
		eligible = append(eligible, rev)
	}
	for i, j := 0, len(eligible)-1; i < j; i, j = i+1, j-1 {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	result.New = len(eligible)

	toPost := eligible
	if len(toPost) > budget {
		result.Skipped = len(toPost) - budget
		toPost = toPost[:budget]
	}
	for i, rev := range toPost {
		if i > 0 {
			time.Sleep(s.PostDelay)
		}
		if err := s.poster.PostOne(ctx, rev, social); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Posted++
		}
	}
	return nil
}
