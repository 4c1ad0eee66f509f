package service

import (
	"testing"

	"activation_backend/internal/activation/ports"
	"activation_backend/platform/apperr"
)

func TestNormalizeProfileCollapsesWhitespace(t *testing.T) {
	p := ports.Profile{
		Country:          "  India ",
		OrganizationType: "NGO",
		EntityType:       "  Private   Limited ",
	}

	got, err := NormalizeProfile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Country != "India" {
		t.Fatalf("country: got %q", got.Country)
	}
	if got.EntityType != "Private Limited" {
		t.Fatalf("entity type: got %q", got.EntityType)
	}
}

func TestNormalizeProfileDeterministic(t *testing.T) {
	p := ports.Profile{Country: "India", OrganizationType: "NGO", EntityType: "Trust"}

	first, err := NormalizeProfile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NormalizeProfile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("same profile normalized differently: %+v vs %+v", first, second)
	}
}

func TestNormalizeProfileMissingCountry(t *testing.T) {
	p := ports.Profile{Country: "   ", OrganizationType: "NGO", EntityType: "Trust"}

	_, err := NormalizeProfile(p)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeProfileAllowsIncompleteTypeFields(t *testing.T) {
	p := ports.Profile{Country: "India"}

	got, err := NormalizeProfile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OrganizationType != "" || got.EntityType != "" {
		t.Fatalf("expected empty type fields, got %+v", got)
	}
}
