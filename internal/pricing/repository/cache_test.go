package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSource struct {
	configs []PricingConfiguration
	calls   int
}

func (c *countingSource) QueryPricing(_ context.Context, _ PricingQuery) ([]PricingConfiguration, error) {
	c.calls++
	return c.configs, nil
}

func (c *countingSource) QueryMembershipFees(_ context.Context, _ FeeQuery) ([]MembershipFeeSchedule, error) {
	c.calls++
	return nil, nil
}

func (c *countingSource) TierExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func newCacheUnderTest(t *testing.T, inner Source) *CachedSource {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedSource(inner, rdb, time.Minute)
}

func TestCachedSourceReadThrough(t *testing.T) {
	inner := &countingSource{
		configs: []PricingConfiguration{
			{EngagementModel: "Market Place", Country: "India", OrganizationType: "NGO",
				EntityType: "Trust", MembershipStatus: MembershipNotActive,
				CalculatedValue: 12, IsPercentage: true, Position: 1},
		},
	}
	cache := newCacheUnderTest(t, inner)

	q := PricingQuery{
		Country: "India", OrganizationType: "NGO", EntityType: "Trust",
		EngagementModel: "Market Place", MembershipStatus: MembershipNotActive,
	}

	first, err := cache.QueryPricing(context.Background(), q)
	if err != nil {
		t.Fatalf("first query failed: %v", err)
	}
	if len(first) != 1 || first[0].CalculatedValue != 12 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if inner.calls != 1 {
		t.Fatalf("expected one backing query, got %d", inner.calls)
	}

	second, err := cache.QueryPricing(context.Background(), q)
	if err != nil {
		t.Fatalf("second query failed: %v", err)
	}
	if len(second) != 1 || second[0].CalculatedValue != 12 {
		t.Fatalf("unexpected cached result: %+v", second)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit on second query, backing calls = %d", inner.calls)
	}
}

func TestCachedSourceDistinctTuplesDistinctEntries(t *testing.T) {
	inner := &countingSource{}
	cache := newCacheUnderTest(t, inner)

	base := PricingQuery{
		Country: "India", OrganizationType: "NGO", EntityType: "Trust",
		EngagementModel: "Market Place", MembershipStatus: MembershipNotActive,
	}
	other := base
	other.MembershipStatus = MembershipActive

	if _, err := cache.QueryPricing(context.Background(), base); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if _, err := cache.QueryPricing(context.Background(), other); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("distinct tuples must miss independently, backing calls = %d", inner.calls)
	}
}
