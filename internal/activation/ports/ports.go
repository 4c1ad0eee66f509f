// Package ports defines the interfaces the activation module needs from other
// bounded contexts. Adapters in internal/adapters satisfy them, keeping this
// module free of direct cross-module dependencies.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Profile is the raw organization profile as the activation workflow sees it.
// Country, organization type, and entity type feed the profile normalizer;
// name and email double as fallback lookup identifiers.
type Profile struct {
	OrganizationID   uuid.UUID
	DisplayName      string
	ContactEmail     string
	Country          string
	OrganizationType string
	EntityType       string
	IndustrySegment  string
}

// ProfileReader fetches the current organization profile.
type ProfileReader interface {
	GetProfile(ctx context.Context, orgID uuid.UUID) (Profile, error)
}

// PricingChecker re-validates persisted selections against current pricing.
// Both methods return apperr.KindNotFound when the selection is no longer
// priced; reconciliation converts that into a review issue, never a failure.
type PricingChecker interface {
	CheckEngagementModel(ctx context.Context, country, organizationType, entityType, engagementModel, membershipStatus string, frequency *string) error
	CheckTier(ctx context.Context, tier string) error
}
