// Package service implements the pricing resolver: the single place that maps
// a normalized profile context plus commercial selections onto pricing
// reference data.
package service

import (
	"context"

	"activation_backend/internal/pricing/repository"
	"activation_backend/platform/apperr"
	"activation_backend/platform/logger"
)

// Billing frequencies supported by fixed-amount engagement models.
const (
	FrequencyMonthly    = "monthly"
	FrequencyQuarterly  = "quarterly"
	FrequencyHalfYearly = "half-yearly"
	FrequencyAnnual     = "annual"
)

// ValidFrequency reports whether the given billing frequency is recognized.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyAnnual:
		return true
	}
	return false
}

// ProfileContext is the canonical (country, organization type, entity type)
// triple that keys every pricing lookup. Callers obtain it from the profile
// normalizer; the resolver rejects partial contexts.
type ProfileContext struct {
	Country          string
	OrganizationType string
	EntityType       string
}

// Complete reports whether every context field is present.
func (c ProfileContext) Complete() bool {
	return c.Country != "" && c.OrganizationType != "" && c.EntityType != ""
}

// Comparison pairs member and non-member configurations for the same tuple,
// for side-by-side discount display. Either side may be nil when that
// membership status has no configured row.
type Comparison struct {
	Member    *repository.PricingConfiguration
	NonMember *repository.PricingConfiguration
	// DerivedDiscountPct is (nonMember - member) / nonMember expressed as a
	// percentage, computed from the paired rows rather than read from storage.
	// Nil unless both rows resolved with matching representations.
	DerivedDiscountPct *float64
}

// FeeQuote is a concrete fee computed from a configuration.
type FeeQuote struct {
	IsPercentage bool
	// RatePct is set for percentage configurations.
	RatePct float64
	// Amount is the concrete fee: a share of the transaction amount for
	// percentage configurations, the fixed period amount otherwise.
	Amount float64
	// CurrencyCode is set only for fixed-amount configurations.
	CurrencyCode string
}

const (
	msgIncompleteContext    = "pricing lookups require country, organization type, and entity type"
	msgPricingNotConfigured = "pricing not configured for this combination"
	msgFeesNotConfigured    = "membership fees not configured for this organization"
)

// Service is the pricing resolver.
type Service struct {
	src repository.Source
	log *logger.Logger
}

// New creates a new pricing service.
func New(src repository.Source, log *logger.Logger) *Service {
	return &Service{src: src, log: log}
}

// Resolve returns the configuration for the exact lookup tuple, or an
// apperr.KindNotFound error when nothing matches. Not-found is an expected
// outcome; callers surface "pricing not configured" rather than failing.
//
// Matching is exact equality on every tuple field. When frequency is nil only
// rows without a billing frequency match (percentage models); when set, only
// rows with that exact frequency match. At most one row should survive; the
// first-by-position pick is a safety net, not a scoring function.
func (s *Service) Resolve(ctx context.Context, pc ProfileContext, engagementModel, membershipStatus string, frequency *string) (*repository.PricingConfiguration, error) {
	if !pc.Complete() {
		return nil, apperr.Validation(msgIncompleteContext)
	}
	if engagementModel == "" || membershipStatus == "" {
		return nil, apperr.Validation(msgIncompleteContext)
	}

	configs, err := s.src.QueryPricing(ctx, repository.PricingQuery{
		Country:          pc.Country,
		OrganizationType: pc.OrganizationType,
		EntityType:       pc.EntityType,
		EngagementModel:  engagementModel,
		MembershipStatus: membershipStatus,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "pricing lookup failed", err)
	}

	for i := range configs {
		cfg := configs[i]
		if !frequencyMatches(cfg.BillingFrequency, frequency) {
			continue
		}
		if !representationValid(cfg) {
			// Misconfigured reference row; skip so the percentage/currency
			// invariant holds for everything we return.
			if s.log != nil {
				s.log.DataIntegrity("pricing_config_invalid", "configuration "+cfg.ID.String()+" mixes percentage and currency semantics")
			}
			continue
		}
		if cfg.IsPercentage {
			cfg.CurrencyCode = nil
		}
		return &cfg, nil
	}

	return nil, apperr.NotFound(msgPricingNotConfigured)
}

// ResolveBoth resolves the same tuple for both membership statuses so callers
// can render member pricing next to non-member pricing regardless of the
// organization's current status. A side that is not configured is nil; only
// infrastructure failures return an error.
func (s *Service) ResolveBoth(ctx context.Context, pc ProfileContext, engagementModel string, frequency *string) (Comparison, error) {
	var cmp Comparison

	member, err := s.Resolve(ctx, pc, engagementModel, repository.MembershipActive, frequency)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return Comparison{}, err
	}
	cmp.Member = member

	nonMember, err := s.Resolve(ctx, pc, engagementModel, repository.MembershipNotActive, frequency)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return Comparison{}, err
	}
	cmp.NonMember = nonMember

	cmp.DerivedDiscountPct = deriveDiscount(cmp.Member, cmp.NonMember)
	return cmp, nil
}

// Fee computes the concrete fee a configuration implies. For percentage
// configurations transactionAmount is the downstream transaction the
// percentage applies to; for fixed configurations it is ignored.
func (s *Service) Fee(cfg *repository.PricingConfiguration, transactionAmount float64) FeeQuote {
	if cfg.IsPercentage {
		return FeeQuote{
			IsPercentage: true,
			RatePct:      cfg.CalculatedValue,
			Amount:       transactionAmount * cfg.CalculatedValue / 100.0,
		}
	}

	quote := FeeQuote{Amount: cfg.CalculatedValue}
	if cfg.CurrencyCode != nil {
		quote.CurrencyCode = *cfg.CurrencyCode
	}
	return quote
}

// MembershipFees returns the fee schedule for the context, or
// apperr.KindNotFound when none is configured.
func (s *Service) MembershipFees(ctx context.Context, pc ProfileContext) (*repository.MembershipFeeSchedule, error) {
	if !pc.Complete() {
		return nil, apperr.Validation(msgIncompleteContext)
	}

	schedules, err := s.src.QueryMembershipFees(ctx, repository.FeeQuery{
		Country:          pc.Country,
		OrganizationType: pc.OrganizationType,
		EntityType:       pc.EntityType,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "membership fee lookup failed", err)
	}
	if len(schedules) == 0 {
		return nil, apperr.NotFound(msgFeesNotConfigured)
	}

	return &schedules[0], nil
}

// TierOffered reports whether the named tier is currently offered.
// A missing tier is apperr.KindNotFound.
func (s *Service) TierOffered(ctx context.Context, name string) error {
	if name == "" {
		return apperr.Validation("tier name is required")
	}
	exists, err := s.src.TierExists(ctx, name)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "tier lookup failed", err)
	}
	if !exists {
		return apperr.NotFound("pricing tier is no longer offered")
	}
	return nil
}

func frequencyMatches(stored, requested *string) bool {
	if requested == nil {
		return stored == nil
	}
	return stored != nil && *stored == *requested
}

// representationValid enforces the percentage/currency exclusivity invariant:
// fixed-amount rows must carry a currency, percentage rows never do at the
// API boundary (a stray currency on a percentage row is stripped, a missing
// currency on a fixed row disqualifies it).
func representationValid(cfg repository.PricingConfiguration) bool {
	if !cfg.IsPercentage && (cfg.CurrencyCode == nil || *cfg.CurrencyCode == "") {
		return false
	}
	return true
}

func deriveDiscount(member, nonMember *repository.PricingConfiguration) *float64 {
	if member == nil || nonMember == nil {
		return nil
	}
	if member.IsPercentage != nonMember.IsPercentage {
		return nil
	}
	if nonMember.CalculatedValue <= 0 {
		return nil
	}
	discount := (nonMember.CalculatedValue - member.CalculatedValue) / nonMember.CalculatedValue * 100.0
	return &discount
}
