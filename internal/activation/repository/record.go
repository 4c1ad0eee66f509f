package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ── Workflow steps ────────────────────────────────────────────────────────────

// WorkflowStep is the closed set of activation workflow states.
type WorkflowStep string

const (
	StepMembershipDecision  WorkflowStep = "membership_decision"
	StepPayment             WorkflowStep = "payment"
	StepTierSelection       WorkflowStep = "tier_selection"
	StepEngagementModel     WorkflowStep = "engagement_model"
	StepPreviewConfirmation WorkflowStep = "preview_confirmation"
	StepActivationComplete  WorkflowStep = "activation_complete"
)

// Steps lists every workflow step in forward order.
func Steps() []WorkflowStep {
	return []WorkflowStep{
		StepMembershipDecision,
		StepPayment,
		StepTierSelection,
		StepEngagementModel,
		StepPreviewConfirmation,
		StepActivationComplete,
	}
}

// ParseStep validates a step name. The zero value and any unknown name are
// rejected; workflow_step only ever holds one of the six defined names.
func ParseStep(raw string) (WorkflowStep, bool) {
	step := WorkflowStep(raw)
	for _, known := range Steps() {
		if step == known {
			return step, true
		}
	}
	return "", false
}

// StepIndex returns the position of step in the forward order, or -1 for an
// unknown step.
func StepIndex(step WorkflowStep) int {
	for i, known := range Steps() {
		if step == known {
			return i
		}
	}
	return -1
}

// ── Domain Models ─────────────────────────────────────────────────────────────

// PaymentEntry is one recorded payment. Entries carry their organization id
// so the fallback path can prove ownership before returning them.
type PaymentEntry struct {
	OrganizationID uuid.UUID `json:"organizationId"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	RecordedAt     time.Time `json:"recordedAt"`
}

// FrequencyChange is one entry of the billing frequency change history.
type FrequencyChange struct {
	ToFrequency string    `json:"toFrequency"`
	Amount      float64   `json:"amount"`
	ChangedAt   time.Time `json:"changedAt"`
}

// ActivationRecord is the durable, per-organization record of workflow
// progress and commercial selections. Exactly one exists per organization;
// it is created on first workflow interaction and only ever superseded by
// upserts, never deleted.
type ActivationRecord struct {
	OrganizationID    uuid.UUID         `db:"organization_id"`
	OrganizationName  string            `db:"organization_name"`
	ContactEmail      string            `db:"contact_email"`
	WorkflowStep      WorkflowStep      `db:"workflow_step"`
	MembershipStatus  string            `db:"membership_status"`
	PricingTier       *string           `db:"pricing_tier"`
	EngagementModel   *string           `db:"engagement_model"`
	SelectedFrequency *string           `db:"selected_frequency"`
	PaymentStatus     string            `db:"payment_status"`
	PaymentAmount     *float64          `db:"payment_amount"`
	PaymentCurrency   *string           `db:"payment_currency"`
	TotalPaymentsMade int               `db:"total_payments_made"`
	Payments          []PaymentEntry    `db:"payments"`
	FrequencyChanges  []FrequencyChange `db:"frequency_changes"`
	// Context snapshot taken at write time; reconciliation compares it
	// against the freshly normalized profile to detect drift.
	Country          *string   `db:"country"`
	OrganizationType *string   `db:"organization_type"`
	EntityType       *string   `db:"entity_type"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// RecordPatch is a partial update. Nil fields are left untouched by the
// upsert; append fields add entries without replacing history.
type RecordPatch struct {
	OrganizationName  *string
	ContactEmail      *string
	WorkflowStep      *WorkflowStep
	MembershipStatus  *string
	PricingTier       *string
	EngagementModel   *string
	SelectedFrequency *string
	PaymentStatus     *string
	PaymentAmount     *float64
	PaymentCurrency   *string
	Country           *string
	OrganizationType  *string
	EntityType        *string

	AppendPayment         *PaymentEntry
	AppendFrequencyChange *FrequencyChange
}

// OrganizationRef is the set of identifiers a caller may hold for an
// organization. The canonical id may be absent; name and email feed the
// bounded fallback search.
type OrganizationRef struct {
	ID    *uuid.UUID
	Name  string
	Email string
}

// Empty reports whether the ref carries no identifier at all.
func (r OrganizationRef) Empty() bool {
	return r.ID == nil && strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Email) == ""
}

// NormalizeName canonicalizes an organization name for lookup: lower-cased,
// trimmed, internal whitespace collapsed. Both the stored column and every
// comparison use this form.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ApplyPatch returns the record with the patch merged in, mirroring the SQL
// COALESCE semantics of the upsert. It backs the in-memory test double and
// documents the exact merge rules in one place.
func ApplyPatch(rec ActivationRecord, patch RecordPatch, now time.Time) ActivationRecord {
	if patch.OrganizationName != nil {
		rec.OrganizationName = *patch.OrganizationName
	}
	if patch.ContactEmail != nil {
		rec.ContactEmail = *patch.ContactEmail
	}
	if patch.WorkflowStep != nil {
		rec.WorkflowStep = *patch.WorkflowStep
	}
	if patch.MembershipStatus != nil {
		rec.MembershipStatus = *patch.MembershipStatus
	}
	if patch.PricingTier != nil {
		rec.PricingTier = patch.PricingTier
	}
	if patch.EngagementModel != nil {
		rec.EngagementModel = patch.EngagementModel
	}
	if patch.SelectedFrequency != nil {
		rec.SelectedFrequency = patch.SelectedFrequency
	}
	if patch.PaymentStatus != nil {
		rec.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentAmount != nil {
		rec.PaymentAmount = patch.PaymentAmount
	}
	if patch.PaymentCurrency != nil {
		rec.PaymentCurrency = patch.PaymentCurrency
	}
	if patch.Country != nil {
		rec.Country = patch.Country
	}
	if patch.OrganizationType != nil {
		rec.OrganizationType = patch.OrganizationType
	}
	if patch.EntityType != nil {
		rec.EntityType = patch.EntityType
	}
	if patch.AppendPayment != nil {
		rec.Payments = append(rec.Payments, *patch.AppendPayment)
		rec.TotalPaymentsMade++
	}
	if patch.AppendFrequencyChange != nil {
		rec.FrequencyChanges = append(rec.FrequencyChanges, *patch.AppendFrequencyChange)
	}
	rec.UpdatedAt = now
	return rec
}
