package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedSource is a read-through Redis cache in front of a pricing Source.
// Reference data is immutable at runtime (only the seed command writes it),
// so entries carry a plain TTL and there is no invalidation path.
// Concurrent misses for the same key are collapsed with singleflight.
type CachedSource struct {
	inner Source
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedSource wraps a Source with a Redis cache.
func NewCachedSource(inner Source, rdb *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, rdb: rdb, ttl: ttl}
}

// Compile-time check that CachedSource implements Source.
var _ Source = (*CachedSource)(nil)

// QueryPricing serves configuration rows from cache when possible.
func (c *CachedSource) QueryPricing(ctx context.Context, q PricingQuery) ([]PricingConfiguration, error) {
	key := pricingKey(q)

	if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var configs []PricingConfiguration
		if err := json.Unmarshal(cached, &configs); err == nil {
			return configs, nil
		}
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		configs, err := c.inner.QueryPricing(ctx, q)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(configs); err == nil {
			c.rdb.Set(ctx, key, encoded, c.ttl)
		}
		return configs, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]PricingConfiguration), nil
}

// QueryMembershipFees serves fee schedules from cache when possible.
func (c *CachedSource) QueryMembershipFees(ctx context.Context, q FeeQuery) ([]MembershipFeeSchedule, error) {
	key := feeKey(q)

	if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var schedules []MembershipFeeSchedule
		if err := json.Unmarshal(cached, &schedules); err == nil {
			return schedules, nil
		}
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		schedules, err := c.inner.QueryMembershipFees(ctx, q)
		if err != nil {
			return nil, err
		}
		if encoded, err := json.Marshal(schedules); err == nil {
			c.rdb.Set(ctx, key, encoded, c.ttl)
		}
		return schedules, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]MembershipFeeSchedule), nil
}

// TierExists is not cached: the tier table is tiny and the check is a single
// indexed EXISTS query.
func (c *CachedSource) TierExists(ctx context.Context, name string) (bool, error) {
	return c.inner.TierExists(ctx, name)
}

func pricingKey(q PricingQuery) string {
	return "pricing:cfg:" + strings.Join([]string{
		q.Country, q.OrganizationType, q.EntityType, q.EngagementModel, q.MembershipStatus,
	}, "|")
}

func feeKey(q FeeQuery) string {
	return fmt.Sprintf("pricing:fees:%s|%s|%s", q.Country, q.OrganizationType, q.EntityType)
}
