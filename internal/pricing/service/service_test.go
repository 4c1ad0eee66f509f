package service

import (
	"context"
	"reflect"
	"testing"

	"activation_backend/internal/pricing/repository"
	"activation_backend/platform/apperr"
)

type fakeSource struct {
	configs   []repository.PricingConfiguration
	schedules []repository.MembershipFeeSchedule
	tiers     map[string]bool
	queries   int
}

func (f *fakeSource) QueryPricing(_ context.Context, q repository.PricingQuery) ([]repository.PricingConfiguration, error) {
	f.queries++
	var out []repository.PricingConfiguration
	for _, cfg := range f.configs {
		if cfg.Country == q.Country && cfg.OrganizationType == q.OrganizationType &&
			cfg.EntityType == q.EntityType && cfg.EngagementModel == q.EngagementModel &&
			cfg.MembershipStatus == q.MembershipStatus {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (f *fakeSource) QueryMembershipFees(_ context.Context, q repository.FeeQuery) ([]repository.MembershipFeeSchedule, error) {
	var out []repository.MembershipFeeSchedule
	for _, fs := range f.schedules {
		if fs.Country == q.Country && fs.OrganizationType == q.OrganizationType && fs.EntityType == q.EntityType {
			out = append(out, fs)
		}
	}
	return out, nil
}

func (f *fakeSource) TierExists(_ context.Context, name string) (bool, error) {
	return f.tiers[name], nil
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

var indiaNGOTrust = ProfileContext{Country: "India", OrganizationType: "NGO", EntityType: "Trust"}

func seedSource() *fakeSource {
	inr := "INR"
	return &fakeSource{
		configs: []repository.PricingConfiguration{
			{
				EngagementModel: "Platform as a Service", Country: "India",
				OrganizationType: "NGO", EntityType: "Trust",
				MembershipStatus: repository.MembershipNotActive,
				BillingFrequency: strPtr(FrequencyAnnual),
				CalculatedValue:  50000, IsPercentage: false, CurrencyCode: &inr,
				Position: 1,
			},
			{
				EngagementModel: "Platform as a Service", Country: "India",
				OrganizationType: "NGO", EntityType: "Trust",
				MembershipStatus: repository.MembershipActive,
				BillingFrequency: strPtr(FrequencyAnnual),
				CalculatedValue:  40000, IsPercentage: false, CurrencyCode: &inr,
				MembershipDiscountPct: floatPtr(20),
				Position:              2,
			},
			{
				EngagementModel: "Market Place", Country: "India",
				OrganizationType: "NGO", EntityType: "Trust",
				MembershipStatus: repository.MembershipNotActive,
				CalculatedValue:  12, IsPercentage: true,
				Position: 3,
			},
			{
				EngagementModel: "Market Place", Country: "India",
				OrganizationType: "NGO", EntityType: "Trust",
				MembershipStatus: repository.MembershipActive,
				CalculatedValue:  9, IsPercentage: true,
				Position: 4,
			},
		},
		schedules: []repository.MembershipFeeSchedule{
			{
				Country: "India", OrganizationType: "NGO", EntityType: "Trust",
				MonthlyAmount: 500, QuarterlyAmount: 1400, AnnualAmount: 5000, Currency: "INR",
			},
		},
		tiers: map[string]bool{"Basic": true, "Standard": true, "Premium": true},
	}
}

func TestResolveFixedAmountAnnual(t *testing.T) {
	svc := New(seedSource(), nil)

	freq := FrequencyAnnual
	cfg, err := svc.Resolve(context.Background(), indiaNGOTrust, "Platform as a Service", repository.MembershipNotActive, &freq)
	if err != nil {
		t.Fatalf("expected resolution, got %v", err)
	}
	if cfg.IsPercentage {
		t.Fatal("expected fixed-amount configuration")
	}
	if cfg.CurrencyCode == nil || *cfg.CurrencyCode != "INR" {
		t.Fatalf("expected INR currency, got %v", cfg.CurrencyCode)
	}
	if cfg.CalculatedValue != 50000 {
		t.Fatalf("expected amount 50000, got %v", cfg.CalculatedValue)
	}
}

func TestResolvePercentageWithoutFrequency(t *testing.T) {
	svc := New(seedSource(), nil)

	cfg, err := svc.Resolve(context.Background(), indiaNGOTrust, "Market Place", repository.MembershipNotActive, nil)
	if err != nil {
		t.Fatalf("expected resolution, got %v", err)
	}
	if !cfg.IsPercentage {
		t.Fatal("expected percentage configuration")
	}
	if cfg.CalculatedValue != 12 {
		t.Fatalf("expected 12 percent, got %v", cfg.CalculatedValue)
	}
	if cfg.CurrencyCode != nil {
		t.Fatalf("percentage configuration must not carry a currency, got %q", *cfg.CurrencyCode)
	}
}

func TestResolveDeterministic(t *testing.T) {
	svc := New(seedSource(), nil)

	freq := FrequencyAnnual
	first, err := svc.Resolve(context.Background(), indiaNGOTrust, "Platform as a Service", repository.MembershipActive, &freq)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := svc.Resolve(context.Background(), indiaNGOTrust, "Platform as a Service", repository.MembershipActive, &freq)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve is not deterministic: %+v vs %+v", first, second)
	}
}

func TestResolveUnsupportedFrequencyIsNotFound(t *testing.T) {
	svc := New(seedSource(), nil)

	freq := FrequencyQuarterly
	_, err := svc.Resolve(context.Background(), indiaNGOTrust, "Platform as a Service", repository.MembershipNotActive, &freq)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for unsupported frequency, got %v", err)
	}
}

func TestResolveRejectsPartialContext(t *testing.T) {
	svc := New(seedSource(), nil)

	partial := ProfileContext{Country: "India", OrganizationType: "NGO"}
	_, err := svc.Resolve(context.Background(), partial, "Market Place", repository.MembershipNotActive, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for partial context, got %v", err)
	}
}

func TestResolveSkipsFixedRowWithoutCurrency(t *testing.T) {
	src := seedSource()
	src.configs = append(src.configs, repository.PricingConfiguration{
		EngagementModel: "Aggregator", Country: "India",
		OrganizationType: "NGO", EntityType: "Trust",
		MembershipStatus: repository.MembershipNotActive,
		CalculatedValue:  100, IsPercentage: false,
		Position: 5,
	})
	svc := New(src, nil)

	_, err := svc.Resolve(context.Background(), indiaNGOTrust, "Aggregator", repository.MembershipNotActive, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("fixed row without currency must not resolve, got %v", err)
	}
}

func TestResolveBothDerivesDiscount(t *testing.T) {
	svc := New(seedSource(), nil)

	cmp, err := svc.ResolveBoth(context.Background(), indiaNGOTrust, "Market Place", nil)
	if err != nil {
		t.Fatalf("resolve both failed: %v", err)
	}
	if cmp.Member == nil || cmp.NonMember == nil {
		t.Fatal("expected both member and non-member configurations")
	}
	if cmp.Member.CalculatedValue > cmp.NonMember.CalculatedValue {
		t.Fatalf("member value %v exceeds non-member value %v", cmp.Member.CalculatedValue, cmp.NonMember.CalculatedValue)
	}
	if cmp.DerivedDiscountPct == nil {
		t.Fatal("expected derived discount")
	}
	if *cmp.DerivedDiscountPct != 25 {
		t.Fatalf("expected 25 percent discount ((12-9)/12), got %v", *cmp.DerivedDiscountPct)
	}
}

func TestResolveBothDerivedDiscountAgreesWithStored(t *testing.T) {
	svc := New(seedSource(), nil)

	freq := FrequencyAnnual
	cmp, err := svc.ResolveBoth(context.Background(), indiaNGOTrust, "Platform as a Service", &freq)
	if err != nil {
		t.Fatalf("resolve both failed: %v", err)
	}
	if cmp.Member == nil || cmp.Member.MembershipDiscountPct == nil {
		t.Fatal("expected stored discount on member configuration")
	}
	if cmp.DerivedDiscountPct == nil {
		t.Fatal("expected derived discount")
	}
	if *cmp.DerivedDiscountPct != *cmp.Member.MembershipDiscountPct {
		t.Fatalf("derived discount %v disagrees with stored %v", *cmp.DerivedDiscountPct, *cmp.Member.MembershipDiscountPct)
	}
}

func TestResolveBothToleratesMissingSide(t *testing.T) {
	src := seedSource()
	// Remove the member Market Place row.
	var kept []repository.PricingConfiguration
	for _, cfg := range src.configs {
		if cfg.EngagementModel == "Market Place" && cfg.MembershipStatus == repository.MembershipActive {
			continue
		}
		kept = append(kept, cfg)
	}
	src.configs = kept
	svc := New(src, nil)

	cmp, err := svc.ResolveBoth(context.Background(), indiaNGOTrust, "Market Place", nil)
	if err != nil {
		t.Fatalf("resolve both must tolerate a missing side: %v", err)
	}
	if cmp.Member != nil {
		t.Fatal("expected nil member configuration")
	}
	if cmp.NonMember == nil {
		t.Fatal("expected non-member configuration")
	}
	if cmp.DerivedDiscountPct != nil {
		t.Fatal("derived discount requires both sides")
	}
}

func TestFeeComputation(t *testing.T) {
	svc := New(seedSource(), nil)

	pct, err := svc.Resolve(context.Background(), indiaNGOTrust, "Market Place", repository.MembershipNotActive, nil)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	quote := svc.Fee(pct, 10000)
	if !quote.IsPercentage || quote.Amount != 1200 {
		t.Fatalf("expected 12%% of 10000 = 1200, got %+v", quote)
	}
	if quote.CurrencyCode != "" {
		t.Fatalf("percentage quote must not carry a currency, got %q", quote.CurrencyCode)
	}

	freq := FrequencyAnnual
	fixed, err := svc.Resolve(context.Background(), indiaNGOTrust, "Platform as a Service", repository.MembershipNotActive, &freq)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	quote = svc.Fee(fixed, 10000)
	if quote.IsPercentage || quote.Amount != 50000 || quote.CurrencyCode != "INR" {
		t.Fatalf("expected fixed 50000 INR, got %+v", quote)
	}
}

func TestMembershipFees(t *testing.T) {
	svc := New(seedSource(), nil)

	fees, err := svc.MembershipFees(context.Background(), indiaNGOTrust)
	if err != nil {
		t.Fatalf("membership fees failed: %v", err)
	}
	if fees.AnnualAmount != 5000 || fees.Currency != "INR" {
		t.Fatalf("unexpected schedule: %+v", fees)
	}

	_, err = svc.MembershipFees(context.Background(), ProfileContext{Country: "France", OrganizationType: "NGO", EntityType: "Trust"})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for unconfigured context, got %v", err)
	}
}

func TestTierOffered(t *testing.T) {
	svc := New(seedSource(), nil)

	if err := svc.TierOffered(context.Background(), "Standard"); err != nil {
		t.Fatalf("expected Standard tier to be offered: %v", err)
	}
	if err := svc.TierOffered(context.Background(), "Legacy"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for retired tier, got %v", err)
	}
}
