package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store is the activation record persistence interface. The workflow
// controller and reconciler depend on this, not on the Postgres
// implementation, so tests can substitute an in-memory double.
type Store interface {
	// Upsert applies the patch to the organization's record, creating it if
	// absent. Idempotent, keyed by organization id, last-write-wins; fields
	// absent from the patch are never clobbered.
	Upsert(ctx context.Context, orgID uuid.UUID, patch RecordPatch) (*ActivationRecord, error)

	// Get fetches the record by its canonical key. Returns
	// apperr.KindNotFound when no record exists.
	Get(ctx context.Context, orgID uuid.UUID) (*ActivationRecord, error)

	// Find locates a record by any identifier the caller holds, falling back
	// to a bounded, strictly matched search across alternate lookup keys when
	// the canonical id misses. Returns apperr.KindNotFound when nothing
	// passes strict-match validation.
	Find(ctx context.Context, ref OrganizationRef) (*ActivationRecord, error)
}
