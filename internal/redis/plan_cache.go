package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key pattern:
// - plan:{shop} - 24h TTL, last known plan name

// PlanCache stores the last plan name resolved per shop so quota checks
// keep working when the authoritative plan lookup is unavailable.
type PlanCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPlanCache(client *goredis.Client) *PlanCache {
	return &PlanCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *PlanCache) Get(ctx context.Context, shop string) (string, error) {
	val, err := c.client.Get(ctx, "plan:"+shop).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

func (c *PlanCache) Set(ctx context.Context, shop, plan string) error {
	return c.client.Set(ctx, "plan:"+shop, plan, c.ttl).Err()
}
