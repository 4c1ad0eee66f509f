package transport

import "time"

// TransitionRequest is the payload a caller passes to advance the workflow.
// Step is the target step; the remaining fields are persisted together with
// the transition when present.
type TransitionRequest struct {
	Step              string   `json:"step" validate:"required,workflowstep"`
	MembershipStatus  *string  `json:"membershipStatus,omitempty" validate:"omitempty,oneof=Active 'Not Active'"`
	PricingTier       *string  `json:"pricingTier,omitempty" validate:"omitempty,min=1,max=100"`
	EngagementModel   *string  `json:"engagementModel,omitempty" validate:"omitempty,min=1,max=100"`
	SelectedFrequency *string  `json:"selectedFrequency,omitempty" validate:"omitempty,billingfrequency"`
	PaymentStatus     *string  `json:"paymentStatus,omitempty" validate:"omitempty,oneof=pending success failed"`
	PaymentAmount     *float64 `json:"paymentAmount,omitempty" validate:"omitempty,gt=0"`
	PaymentCurrency   *string  `json:"paymentCurrency,omitempty" validate:"omitempty,len=3"`
}

// EditRequest re-enters a previously visited step, bypassing forward guards.
type EditRequest struct {
	Step string `json:"step" validate:"required,workflowstep"`
}

// FrequencyChangeRequest switches the billing frequency for a fixed-amount
// engagement model.
type FrequencyChangeRequest struct {
	Frequency string  `json:"frequency" validate:"required,billingfrequency"`
	Amount    float64 `json:"amount" validate:"gt=0"`
}

// PaymentEntryResponse is one recorded payment.
type PaymentEntryResponse struct {
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recordedAt"`
}

// FrequencyChangeResponse is one billing frequency change.
type FrequencyChangeResponse struct {
	ToFrequency string    `json:"toFrequency"`
	Amount      float64   `json:"amount"`
	ChangedAt   time.Time `json:"changedAt"`
}

// ActivationRecordResponse represents the persisted activation record.
type ActivationRecordResponse struct {
	OrganizationID    string                    `json:"organizationId"`
	WorkflowStep      string                    `json:"workflowStep"`
	MembershipStatus  string                    `json:"membershipStatus"`
	PricingTier       *string                   `json:"pricingTier,omitempty"`
	EngagementModel   *string                   `json:"engagementModel,omitempty"`
	SelectedFrequency *string                   `json:"selectedFrequency,omitempty"`
	PaymentStatus     string                    `json:"paymentStatus"`
	PaymentAmount     *float64                  `json:"paymentAmount,omitempty"`
	PaymentCurrency   *string                   `json:"paymentCurrency,omitempty"`
	TotalPaymentsMade int                       `json:"totalPaymentsMade"`
	Payments          []PaymentEntryResponse    `json:"payments,omitempty"`
	FrequencyChanges  []FrequencyChangeResponse `json:"frequencyChanges,omitempty"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// ValidationResultResponse reports drift between the saved record and the
// current profile.
type ValidationResultResponse struct {
	IsValid bool     `json:"isValid"`
	Issues  []string `json:"issues"`
}

// LoadResponse is the result of loading the workflow: the saved record (nil
// for a fresh organization) and the reconciliation verdict.
type LoadResponse struct {
	SavedSelections *ActivationRecordResponse `json:"savedSelections"`
	Validation      ValidationResultResponse  `json:"validation"`
}
