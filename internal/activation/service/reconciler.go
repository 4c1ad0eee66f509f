package service

import (
	"context"
	"fmt"

	"activation_backend/internal/activation/ports"
	"activation_backend/internal/activation/repository"
	"activation_backend/platform/apperr"
)

// ValidationResult is the reconciliation verdict for a saved record against
// the organization's current profile.
type ValidationResult struct {
	IsValid bool
	Issues  []string
}

// ReconcileOutcome pairs the saved selections (nil for a fresh organization)
// with the reconciliation verdict.
type ReconcileOutcome struct {
	SavedSelections *repository.ActivationRecord
	Validation      ValidationResult
}

// Reconcile loads the organization's saved selections and checks them
// against the current profile. Drift never fails the load; each mismatch
// becomes a reviewable issue so the caller can surface it instead of
// resuming a stale step.
func (s *Service) Reconcile(ctx context.Context, profile ports.Profile) (ReconcileOutcome, error) {
	ref := repository.OrganizationRef{
		ID:    &profile.OrganizationID,
		Name:  profile.DisplayName,
		Email: profile.ContactEmail,
	}

	rec, err := s.store.Find(ctx, ref)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return ReconcileOutcome{Validation: ValidationResult{IsValid: true, Issues: []string{}}}, nil
		}
		return ReconcileOutcome{}, err
	}

	nctx, err := NormalizeProfile(profile)
	if err != nil {
		return ReconcileOutcome{}, err
	}

	issues := contextDrift(rec, nctx)

	stale, err := s.staleSelections(ctx, rec, nctx)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	issues = append(issues, stale...)

	if len(issues) > 0 {
		s.log.ReconciliationDrift(rec.OrganizationID.String(), issues)
	}

	return ReconcileOutcome{
		SavedSelections: rec,
		Validation:      ValidationResult{IsValid: len(issues) == 0, Issues: issues},
	}, nil
}

// contextDrift compares the snapshot taken at write time against the
// freshly normalized profile, field by field.
func contextDrift(rec *repository.ActivationRecord, nctx NormalizedContext) []string {
	issues := []string{}
	if drifted(rec.Country, nctx.Country) {
		issues = append(issues, fmt.Sprintf("country changed from %s to %s", *rec.Country, nctx.Country))
	}
	if drifted(rec.OrganizationType, nctx.OrganizationType) {
		issues = append(issues, fmt.Sprintf("organization type changed from %s to %s", *rec.OrganizationType, orNone(nctx.OrganizationType)))
	}
	if drifted(rec.EntityType, nctx.EntityType) {
		issues = append(issues, fmt.Sprintf("entity type changed from %s to %s", *rec.EntityType, orNone(nctx.EntityType)))
	}
	return issues
}

// drifted reports a mismatch against a present stored value. Records written
// before a snapshot field existed have nothing to compare against; a field
// cleared since the snapshot still counts as drift.
func drifted(stored *string, current string) bool {
	return stored != nil && *stored != "" && *stored != current
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// staleSelections re-resolves the saved tier and engagement model under the
// current context. A selection that no longer resolves is flagged; pricing
// infrastructure failures propagate so the caller can retry.
func (s *Service) staleSelections(ctx context.Context, rec *repository.ActivationRecord, nctx NormalizedContext) ([]string, error) {
	var issues []string

	if hasValue(rec.EngagementModel) {
		err := s.pricing.CheckEngagementModel(ctx, nctx.Country, nctx.OrganizationType, nctx.EntityType,
			*rec.EngagementModel, rec.MembershipStatus, rec.SelectedFrequency)
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindNotFound):
			issues = append(issues, fmt.Sprintf("engagement model %q is no longer priced for this organization", *rec.EngagementModel))
		case apperr.Is(err, apperr.KindValidation):
			// Incomplete profile context; the selection cannot be re-validated.
			issues = append(issues, fmt.Sprintf("engagement model %q cannot be re-validated against the current profile", *rec.EngagementModel))
		default:
			return nil, err
		}
	}

	if hasValue(rec.PricingTier) {
		err := s.pricing.CheckTier(ctx, *rec.PricingTier)
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindNotFound):
			issues = append(issues, fmt.Sprintf("pricing tier %q is no longer offered", *rec.PricingTier))
		default:
			return nil, err
		}
	}

	return issues, nil
}
