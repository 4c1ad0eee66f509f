package repository

import (
	"context"
	"fmt"
	"strings"

	"activation_backend/platform/apperr"
)

// The fallback search runs when the canonical id lookup misses (or the caller
// never had the id). It scans a fixed, ordered set of alternate lookup keys
// and accepts a candidate only after strict-match validation proves it
// belongs to the organization the caller asked about. A candidate that fails
// strict match is a data-integrity signal, logged and skipped; it must never
// surface to the caller.

const fallbackCandidateLimit = 5

// lookupStrategy fetches candidate records from one alternate partition.
type lookupStrategy struct {
	name    string
	applies func(ref OrganizationRef) bool
	fetch   func(ctx context.Context, r *Repository, ref OrganizationRef) ([]ActivationRecord, error)
}

func fallbackStrategies() []lookupStrategy {
	return []lookupStrategy{
		{
			name:    "organization_id",
			applies: func(ref OrganizationRef) bool { return ref.ID != nil },
			fetch: func(ctx context.Context, r *Repository, ref OrganizationRef) ([]ActivationRecord, error) {
				return r.fetchCandidates(ctx, `organization_id = $1`, *ref.ID)
			},
		},
		{
			name:    "normalized_name",
			applies: func(ref OrganizationRef) bool { return strings.TrimSpace(ref.Name) != "" },
			fetch: func(ctx context.Context, r *Repository, ref OrganizationRef) ([]ActivationRecord, error) {
				return r.fetchCandidates(ctx, `normalized_name = $1`, NormalizeName(ref.Name))
			},
		},
		{
			name:    "contact_email",
			applies: func(ref OrganizationRef) bool { return strings.TrimSpace(ref.Email) != "" },
			fetch: func(ctx context.Context, r *Repository, ref OrganizationRef) ([]ActivationRecord, error) {
				return r.fetchCandidates(ctx, `lower(contact_email) = $1`, strings.ToLower(strings.TrimSpace(ref.Email)))
			},
		},
	}
}

// Find locates the organization's record, trying the canonical id first and
// then each alternate partition in priority order. Every candidate passes
// strict-match validation before acceptance, and payment entries are filtered
// to the owning organization so shared or mis-keyed structures cannot leak
// another tenant's data.
func (r *Repository) Find(ctx context.Context, ref OrganizationRef) (*ActivationRecord, error) {
	if ref.Empty() {
		return nil, apperr.Validation("at least one organization identifier is required")
	}

	for _, strat := range fallbackStrategies() {
		if !strat.applies(ref) {
			continue
		}

		candidates, err := strat.fetch(ctx, r, ref)
		if err != nil {
			return nil, fmt.Errorf("fallback search (%s): %w", strat.name, err)
		}

		for i := range candidates {
			candidate := candidates[i]
			if !StrictMatch(candidate, ref) {
				if r.log != nil {
					r.log.DataIntegrity("fallback_strict_match_failed",
						"strategy "+strat.name+" produced record "+candidate.OrganizationID.String()+" that does not match the requested identifiers")
				}
				continue
			}
			FilterPaymentEntries(&candidate)
			return &candidate, nil
		}
	}

	return nil, apperr.NotFound(recordNotFoundMsg)
}

func (r *Repository) fetchCandidates(ctx context.Context, where string, arg any) ([]ActivationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM activation_records WHERE ` + where +
		fmt.Sprintf(` ORDER BY updated_at DESC LIMIT %d`, fallbackCandidateLimit)

	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// StrictMatch reports whether the candidate record provably belongs to the
// organization the caller identified. At least one caller-supplied identifier
// must equal the candidate's stored value exactly (names compared in
// normalized form, emails case-insensitively). Near matches are rejected.
func StrictMatch(rec ActivationRecord, ref OrganizationRef) bool {
	if ref.ID != nil && rec.OrganizationID == *ref.ID {
		return true
	}
	if name := strings.TrimSpace(ref.Name); name != "" &&
		NormalizeName(rec.OrganizationName) == NormalizeName(name) {
		return true
	}
	if email := strings.TrimSpace(ref.Email); email != "" &&
		strings.EqualFold(strings.TrimSpace(rec.ContactEmail), email) {
		return true
	}
	return false
}

// FilterPaymentEntries drops payment entries that do not carry the record's
// own organization id. Entries from other organizations can appear when
// storage was shared or mis-keyed upstream; they must never be returned.
func FilterPaymentEntries(rec *ActivationRecord) {
	if len(rec.Payments) == 0 {
		return
	}
	kept := rec.Payments[:0]
	for _, entry := range rec.Payments {
		if entry.OrganizationID == rec.OrganizationID {
			kept = append(kept, entry)
		}
	}
	rec.Payments = kept
}
