// Package adapters wires the domain modules together behind their port
// interfaces, keeping the modules themselves free of direct dependencies on
// each other.
package adapters

import (
	"context"

	"github.com/google/uuid"

	"activation_backend/internal/activation/ports"
	activationsvc "activation_backend/internal/activation/service"
	orgsvc "activation_backend/internal/organizations/service"
	pricingsvc "activation_backend/internal/pricing/service"
	"activation_backend/platform/apperr"
)

// OrganizationProfiles adapts the organizations service to the activation
// module's ProfileReader port.
type OrganizationProfiles struct {
	orgs *orgsvc.Service
}

// NewOrganizationProfiles creates the profile reader adapter.
func NewOrganizationProfiles(orgs *orgsvc.Service) *OrganizationProfiles {
	return &OrganizationProfiles{orgs: orgs}
}

func (a *OrganizationProfiles) GetProfile(ctx context.Context, orgID uuid.UUID) (ports.Profile, error) {
	org, err := a.orgs.Get(ctx, orgID)
	if err != nil {
		return ports.Profile{}, err
	}
	return ports.Profile{
		OrganizationID:   org.ID,
		DisplayName:      org.Name,
		ContactEmail:     org.ContactEmail,
		Country:          org.Country,
		OrganizationType: org.OrganizationType,
		EntityType:       org.EntityType,
		IndustrySegment:  org.IndustrySegment,
	}, nil
}

var _ ports.ProfileReader = (*OrganizationProfiles)(nil)

// PricingChecks adapts the pricing service to the activation module's
// PricingChecker port, used during reconciliation to re-validate persisted
// selections.
type PricingChecks struct {
	pricing *pricingsvc.Service
}

// NewPricingChecks creates the pricing checker adapter.
func NewPricingChecks(pricing *pricingsvc.Service) *PricingChecks {
	return &PricingChecks{pricing: pricing}
}

func (a *PricingChecks) CheckEngagementModel(ctx context.Context, country, organizationType, entityType, engagementModel, membershipStatus string, frequency *string) error {
	pc := pricingsvc.ProfileContext{
		Country:          country,
		OrganizationType: organizationType,
		EntityType:       entityType,
	}
	_, err := a.pricing.Resolve(ctx, pc, engagementModel, membershipStatus, frequency)
	return err
}

func (a *PricingChecks) CheckTier(ctx context.Context, tier string) error {
	return a.pricing.TierOffered(ctx, tier)
}

var _ ports.PricingChecker = (*PricingChecks)(nil)

// ActivationContexts adapts the activation service's profile normalization
// to the pricing handler's ContextProvider, so pricing lookups always run
// under the caller's canonical context and never trust request fields.
//
// The activation service itself depends on pricing, so this adapter is
// constructed empty and bound after both modules exist. Requests arriving
// before Bind (there are none; binding happens during startup) fail closed.
type ActivationContexts struct {
	activation *activationsvc.Service
}

// NewActivationContexts creates an unbound pricing context adapter.
func NewActivationContexts() *ActivationContexts {
	return &ActivationContexts{}
}

// Bind attaches the activation service once it has been constructed.
func (a *ActivationContexts) Bind(activation *activationsvc.Service) {
	a.activation = activation
}

func (a *ActivationContexts) ProfileContext(ctx context.Context, orgID uuid.UUID) (pricingsvc.ProfileContext, error) {
	if a.activation == nil {
		return pricingsvc.ProfileContext{}, apperr.Internal("activation context provider not initialized")
	}
	nctx, err := a.activation.NormalizedContext(ctx, orgID)
	if err != nil {
		return pricingsvc.ProfileContext{}, err
	}
	return pricingsvc.ProfileContext{
		Country:          nctx.Country,
		OrganizationType: nctx.OrganizationType,
		EntityType:       nctx.EntityType,
	}, nil
}
