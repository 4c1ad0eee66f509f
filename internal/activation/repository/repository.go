package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"activation_backend/platform/apperr"
	"activation_backend/platform/logger"
)

const recordNotFoundMsg = "activation record not found"

const recordColumns = `
	organization_id, organization_name, contact_email,
	workflow_step, membership_status, pricing_tier, engagement_model,
	selected_frequency, payment_status, payment_amount, payment_currency,
	total_payments_made, payments, frequency_changes,
	country, organization_type, entity_type, created_at, updated_at`

// Repository provides Postgres-backed activation record storage.
type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a new activation record repository.
func New(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// Compile-time check that Repository implements Store.
var _ Store = (*Repository)(nil)

// Upsert applies the patch keyed by organization id. Absent patch fields fall
// back to the stored value via COALESCE, so overlapping calls cannot clobber
// fields they did not carry. Payment and frequency-change entries are
// appended to their JSONB arrays, never replaced.
func (r *Repository) Upsert(ctx context.Context, orgID uuid.UUID, patch RecordPatch) (*ActivationRecord, error) {
	appendPayment, err := marshalOptional(patch.AppendPayment)
	if err != nil {
		return nil, fmt.Errorf("encode payment entry: %w", err)
	}
	appendFreqChange, err := marshalOptional(patch.AppendFrequencyChange)
	if err != nil {
		return nil, fmt.Errorf("encode frequency change: %w", err)
	}

	var normalizedName *string
	if patch.OrganizationName != nil {
		nn := NormalizeName(*patch.OrganizationName)
		normalizedName = &nn
	}

	query := `
		INSERT INTO activation_records (
			organization_id, organization_name, normalized_name, contact_email,
			workflow_step, membership_status, pricing_tier, engagement_model,
			selected_frequency, payment_status, payment_amount, payment_currency,
			country, organization_type, entity_type,
			total_payments_made, payments, frequency_changes,
			created_at, updated_at
		) VALUES (
			$1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''),
			COALESCE($5, 'membership_decision'), COALESCE($6, 'Not Active'), $7, $8,
			$9, COALESCE($10, 'pending'), $11, $12,
			$13, $14, $15,
			CASE WHEN $16::jsonb IS NULL THEN 0 ELSE 1 END,
			CASE WHEN $16::jsonb IS NULL THEN '[]'::jsonb ELSE jsonb_build_array($16::jsonb) END,
			CASE WHEN $17::jsonb IS NULL THEN '[]'::jsonb ELSE jsonb_build_array($17::jsonb) END,
			now(), now()
		)
		ON CONFLICT (organization_id) DO UPDATE SET
			organization_name = COALESCE($2, activation_records.organization_name),
			normalized_name = COALESCE($3, activation_records.normalized_name),
			contact_email = COALESCE($4, activation_records.contact_email),
			workflow_step = COALESCE($5, activation_records.workflow_step),
			membership_status = COALESCE($6, activation_records.membership_status),
			pricing_tier = COALESCE($7, activation_records.pricing_tier),
			engagement_model = COALESCE($8, activation_records.engagement_model),
			selected_frequency = COALESCE($9, activation_records.selected_frequency),
			payment_status = COALESCE($10, activation_records.payment_status),
			payment_amount = COALESCE($11, activation_records.payment_amount),
			payment_currency = COALESCE($12, activation_records.payment_currency),
			country = COALESCE($13, activation_records.country),
			organization_type = COALESCE($14, activation_records.organization_type),
			entity_type = COALESCE($15, activation_records.entity_type),
			total_payments_made = activation_records.total_payments_made +
				CASE WHEN $16::jsonb IS NULL THEN 0 ELSE 1 END,
			payments = CASE WHEN $16::jsonb IS NULL
				THEN activation_records.payments
				ELSE activation_records.payments || $16::jsonb END,
			frequency_changes = CASE WHEN $17::jsonb IS NULL
				THEN activation_records.frequency_changes
				ELSE activation_records.frequency_changes || $17::jsonb END,
			updated_at = now()
		RETURNING ` + recordColumns

	row := r.pool.QueryRow(ctx, query,
		orgID, patch.OrganizationName, normalizedName, patch.ContactEmail,
		stepParam(patch.WorkflowStep), patch.MembershipStatus, patch.PricingTier, patch.EngagementModel,
		patch.SelectedFrequency, patch.PaymentStatus, patch.PaymentAmount, patch.PaymentCurrency,
		patch.Country, patch.OrganizationType, patch.EntityType,
		appendPayment, appendFreqChange,
	)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert activation record: %w", err)
	}
	return rec, nil
}

// Get fetches a record by the canonical organization id only.
func (r *Repository) Get(ctx context.Context, orgID uuid.UUID) (*ActivationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM activation_records WHERE organization_id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(recordNotFoundMsg)
		}
		return nil, fmt.Errorf("get activation record: %w", err)
	}
	return rec, nil
}

func marshalOptional(v interface{}) ([]byte, error) {
	switch typed := v.(type) {
	case *PaymentEntry:
		if typed == nil {
			return nil, nil
		}
		return json.Marshal(typed)
	case *FrequencyChange:
		if typed == nil {
			return nil, nil
		}
		return json.Marshal(typed)
	default:
		return nil, fmt.Errorf("unsupported append type %T", v)
	}
}

func stepParam(step *WorkflowStep) *string {
	if step == nil {
		return nil
	}
	s := string(*step)
	return &s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ActivationRecord, error) {
	var rec ActivationRecord
	var step string
	if err := row.Scan(
		&rec.OrganizationID, &rec.OrganizationName, &rec.ContactEmail,
		&step, &rec.MembershipStatus, &rec.PricingTier, &rec.EngagementModel,
		&rec.SelectedFrequency, &rec.PaymentStatus, &rec.PaymentAmount, &rec.PaymentCurrency,
		&rec.TotalPaymentsMade, &rec.Payments, &rec.FrequencyChanges,
		&rec.Country, &rec.OrganizationType, &rec.EntityType, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.WorkflowStep = WorkflowStep(step)
	return &rec, nil
}
