package service

import (
	"strings"

	"activation_backend/internal/activation/ports"
	"activation_backend/platform/apperr"
)

// NormalizedContext is the canonical (country, organization type, entity
// type) triple derived from a profile. It is never persisted on its own;
// every consumer recomputes it from the current profile.
type NormalizedContext struct {
	Country          string
	OrganizationType string
	EntityType       string
}

const msgCountryRequired = "country is required on the organization profile"

// NormalizeProfile derives the canonical pricing context from a raw profile.
// Pure and deterministic: trims and collapses whitespace in each field.
// Country is the primary partition key for every pricing lookup, so a
// missing country is a validation error; organization type and entity type
// may be empty for incomplete profiles and are reported downstream by the
// pricing resolver instead.
func NormalizeProfile(p ports.Profile) (NormalizedContext, error) {
	country := normalizeField(p.Country)
	if country == "" {
		return NormalizedContext{}, apperr.Validation(msgCountryRequired)
	}

	return NormalizedContext{
		Country:          country,
		OrganizationType: normalizeField(p.OrganizationType),
		EntityType:       normalizeField(p.EntityType),
	}, nil
}

func normalizeField(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
