package services

import (
	"context"
	"strings"
	"time"

	"starpost/internal/repository"
	"starpost/pkg/logger"
)

const (
	// DefaultDailyCap is the fixed daily cap on successful posts per shop.
	DefaultDailyCap = 10
	// DefaultPerRunCap bounds attempts in a single sweep invocation.
	DefaultPerRunCap = 5
	// DefaultFreeMonthlyCap applies to free-tier (or unknown) plans.
	DefaultFreeMonthlyCap = 5

	// FallbackPlan is assumed when neither the authoritative lookup nor
	// the cache can resolve a plan. Lowest tier, conservative.
	FallbackPlan = "free"
)

// PlanLookup is the authoritative plan source, typically PlanClient.
type PlanLookup interface {
	CurrentPlan(ctx context.Context, shop string) (string, error)
}

// planCache holds the last resolved plan name per shop.
type planCache interface {
	Get(ctx context.Context, shop string) (string, error)
	Set(ctx context.Context, shop, plan string) error
}

// QuotaManager computes, per shop, how many posts remain for the
// current day and month. Pure read-side computation over the ledger.
type QuotaManager struct {
	attempts repository.PostAttemptRepository
	plans    PlanLookup
	cache    planCache
	logger   *logger.Logger

	DailyCap       int
	PerRunCap      int
	FreeMonthlyCap int

	// Now is overridable so tests can pin calendar boundaries.
	Now func() time.Time
}

func NewQuotaManager(attempts repository.PostAttemptRepository, plans PlanLookup, cache planCache, l *logger.Logger) *QuotaManager {
	return &QuotaManager{
		attempts:       attempts,
		plans:          plans,
		cache:          cache,
		logger:         l,
		DailyCap:       DefaultDailyCap,
		PerRunCap:      DefaultPerRunCap,
		FreeMonthlyCap: DefaultFreeMonthlyCap,
		Now:            time.Now,
	}
}

func (q *QuotaManager) DailyUsed(ctx context.Context, shop string) (int, error) {
	now := q.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return q.attempts.CountSuccessSince(ctx, shop, start)
}

func (q *QuotaManager) MonthlyUsed(ctx context.Context, shop string) (int, error) {
	now := q.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return q.attempts.CountSuccessSince(ctx, shop, start)
}

// MonthlyCap resolves the shop's plan and maps it to a monthly cap.
// Zero means unlimited.
func (q *QuotaManager) MonthlyCap(ctx context.Context, shop string) int {
	return q.capForPlan(q.ResolvePlan(ctx, shop))
}

// ResolvePlan is a two-source resolution: authoritative lookup first,
// cached value on lookup failure, lowest tier when both are empty.
func (q *QuotaManager) ResolvePlan(ctx context.Context, shop string) string {
	if q.plans != nil {
		plan, err := q.plans.CurrentPlan(ctx, shop)
		if err == nil && plan != "" {
			if q.cache != nil {
				if cacheErr := q.cache.Set(ctx, shop, plan); cacheErr != nil {
					q.logger.Warnf("quota: caching plan for %s: %s", shop, cacheErr)
				}
			}
			return plan
		}
		if err != nil {
			q.logger.Warnf("quota: plan lookup for %s: %s", shop, err)
		}
	}
	if q.cache != nil {
		if plan, err := q.cache.Get(ctx, shop); err == nil && plan != "" {
			return plan
		}
	}
	return FallbackPlan
}

func (q *QuotaManager) capForPlan(plan string) int {
	if plan == "" || strings.Contains(strings.ToLower(plan), "free") {
		return q.FreeMonthlyCap
	}
	return 0
}
