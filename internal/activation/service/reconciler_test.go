package service

import (
	"context"
	"strings"
	"testing"

	"activation_backend/internal/activation/repository"
	"activation_backend/internal/activation/transport"
)

func TestReconcileFreshOrganizationIsValid(t *testing.T) {
	svc, _, orgID := setup(t)

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SavedSelections != nil {
		t.Fatalf("expected no saved selections, got %+v", out.SavedSelections)
	}
	if !out.Validation.IsValid || len(out.Validation.Issues) != 0 {
		t.Fatalf("fresh organization must be valid, got %+v", out.Validation)
	}
}

func TestReconcileUnchangedProfileIsValid(t *testing.T) {
	svc, _, orgID := setup(t)
	advance(t, svc, orgID, repository.StepPreviewConfirmation)

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SavedSelections == nil {
		t.Fatal("expected saved selections")
	}
	if !out.Validation.IsValid {
		t.Fatalf("expected valid, got issues %v", out.Validation.Issues)
	}
}

func TestReconcileFlagsCountryDrift(t *testing.T) {
	svc, _, orgID := setup(t)
	profiles := svc.profiles.(*fakeProfiles)

	advance(t, svc, orgID, repository.StepPreviewConfirmation)

	p := profiles.profiles[orgID]
	p.Country = "Singapore"
	profiles.profiles[orgID] = p

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Validation.IsValid {
		t.Fatal("expected drift to invalidate the record")
	}
	found := false
	for _, issue := range out.Validation.Issues {
		if strings.Contains(issue, "country changed from India to Singapore") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing country drift issue, got %v", out.Validation.Issues)
	}
	// Saved selections are still returned for review, never discarded.
	if out.SavedSelections == nil {
		t.Fatal("expected saved selections alongside the issues")
	}
}

func TestReconcileFlagsClearedOrganizationType(t *testing.T) {
	svc, _, orgID := setup(t)
	profiles := svc.profiles.(*fakeProfiles)

	advance(t, svc, orgID, repository.StepPreviewConfirmation)

	// The organization type was wiped after the snapshot was taken. A
	// cleared field against a stored value is drift, not a free pass.
	p := profiles.profiles[orgID]
	p.OrganizationType = ""
	profiles.profiles[orgID] = p

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Validation.IsValid {
		t.Fatal("expected cleared organization type to invalidate the record")
	}
	found := false
	for _, issue := range out.Validation.Issues {
		if strings.Contains(issue, "organization type changed from NGO to (none)") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing organization type drift issue, got %v", out.Validation.Issues)
	}
}

func TestReconcileFlagsStaleEngagementModel(t *testing.T) {
	svc, _, orgID := setup(t)
	pricing := svc.pricing.(*fakePricing)

	advance(t, svc, orgID, repository.StepPreviewConfirmation)

	// The model was withdrawn from the catalog after selection.
	delete(pricing.models, "PaaS")

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Validation.IsValid {
		t.Fatal("expected stale engagement model to invalidate the record")
	}
	found := false
	for _, issue := range out.Validation.Issues {
		if strings.Contains(issue, `engagement model "PaaS" is no longer priced`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing stale model issue, got %v", out.Validation.Issues)
	}
}

func TestReconcileFlagsWithdrawnTier(t *testing.T) {
	svc, _, orgID := setup(t)
	pricing := svc.pricing.(*fakePricing)

	advance(t, svc, orgID, repository.StepPreviewConfirmation)
	delete(pricing.tiers, "Standard")

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Validation.IsValid {
		t.Fatal("expected withdrawn tier to invalidate the record")
	}
}

func TestReconcileAfterEditKeepsSelections(t *testing.T) {
	svc, _, orgID := setup(t)

	advance(t, svc, orgID, repository.StepPreviewConfirmation)
	if _, err := svc.Edit(context.Background(), orgID, transport.EditRequest{Step: "tier_selection"}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	out, err := svc.Load(context.Background(), orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SavedSelections.EngagementModel == nil {
		t.Fatal("engagement model lost across edit and reload")
	}
	if !out.Validation.IsValid {
		t.Fatalf("expected valid after edit, got %v", out.Validation.Issues)
	}
}
