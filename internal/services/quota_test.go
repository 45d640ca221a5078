package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"starpost/internal/domain/review"
	"starpost/pkg/logger"
)

func TestCapForPlan(t *testing.T) {
	q := NewQuotaManager(newMockAttemptRepo(), nil, nil, logger.NewNop())

	require.Equal(t, DefaultFreeMonthlyCap, q.capForPlan("free"))
	require.Equal(t, DefaultFreeMonthlyCap, q.capForPlan("Free Tier"))
	require.Equal(t, DefaultFreeMonthlyCap, q.capForPlan(""))
	require.Equal(t, 0, q.capForPlan("Growth"))
	require.Equal(t, 0, q.capForPlan("pro-monthly"))
}

func TestResolvePlanPrefersLookupAndPrimesCache(t *testing.T) {
	cache := newFakePlanCache()
	q := NewQuotaManager(newMockAttemptRepo(), &fakePlanLookup{plan: "Growth"}, cache, logger.NewNop())

	require.Equal(t, "Growth", q.ResolvePlan(context.Background(), "acme.myshopify.com"))
	require.Equal(t, "Growth", cache.values["acme.myshopify.com"])
}

func TestResolvePlanFallsBackToCache(t *testing.T) {
	cache := newFakePlanCache()
	cache.values["acme.myshopify.com"] = "Growth"
	lookup := &fakePlanLookup{err: errors.New("billing service down")}
	q := NewQuotaManager(newMockAttemptRepo(), lookup, cache, logger.NewNop())

	require.Equal(t, "Growth", q.ResolvePlan(context.Background(), "acme.myshopify.com"))
}

func TestResolvePlanFallsBackToFreeTier(t *testing.T) {
	lookup := &fakePlanLookup{err: errors.New("billing service down")}

	q := NewQuotaManager(newMockAttemptRepo(), lookup, newFakePlanCache(), logger.NewNop())
	require.Equal(t, FallbackPlan, q.ResolvePlan(context.Background(), "acme.myshopify.com"))

	// No lookup and no cache wired at all: same conservative answer.
	q = NewQuotaManager(newMockAttemptRepo(), nil, nil, logger.NewNop())
	require.Equal(t, FallbackPlan, q.ResolvePlan(context.Background(), "acme.myshopify.com"))
}

func TestDailyUsedCountsFromLocalMidnight(t *testing.T) {
	attempts := newMockAttemptRepo()
	q := NewQuotaManager(attempts, nil, nil, logger.NewNop())
	q.Now = func() time.Time {
		return time.Date(2026, time.March, 15, 9, 30, 0, 0, time.Local)
	}

	put := func(id string, at time.Time, status review.AttemptStatus) {
		require.NoError(t, attempts.Upsert(context.Background(), &review.PostAttempt{
			Shop: "acme.myshopify.com", ReviewID: id, Rating: 5,
			Status: status, AttemptedAt: at,
		}))
	}
	put("today-1", time.Date(2026, time.March, 15, 1, 0, 0, 0, time.Local), review.StatusSuccess)
	put("today-failed", time.Date(2026, time.March, 15, 2, 0, 0, 0, time.Local), review.StatusFailed)
	put("yesterday", time.Date(2026, time.March, 14, 23, 0, 0, 0, time.Local), review.StatusSuccess)
	put("earlier-month", time.Date(2026, time.March, 2, 12, 0, 0, 0, time.Local), review.StatusSuccess)

	daily, err := q.DailyUsed(context.Background(), "acme.myshopify.com")
	require.NoError(t, err)
	require.Equal(t, 1, daily)

	monthly, err := q.MonthlyUsed(context.Background(), "acme.myshopify.com")
	require.NoError(t, err)
	require.Equal(t, 3, monthly)
}

func TestMonthlyCapZeroMeansUnlimited(t *testing.T) {
	q := NewQuotaManager(newMockAttemptRepo(), &fakePlanLookup{plan: "Scale"}, nil, logger.NewNop())
	require.Equal(t, 0, q.MonthlyCap(context.Background(), "acme.myshopify.com"))

	q = NewQuotaManager(newMockAttemptRepo(), &fakePlanLookup{plan: "free"}, nil, logger.NewNop())
	require.Equal(t, DefaultFreeMonthlyCap, q.MonthlyCap(context.Background(), "acme.myshopify.com"))
}
