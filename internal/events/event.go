// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"activation_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Organization Domain Events
// =============================================================================

// OrganizationProfileUpdated is published when an organization's profile
// changes. Consumers should re-run activation reconciliation for the
// organization rather than trusting previously derived pricing context.
type OrganizationProfileUpdated struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	Country        string    `json:"country"`
	OrgType        string    `json:"orgType"`
	EntityType     string    `json:"entityType"`
}

func (e OrganizationProfileUpdated) EventName() string { return "organizations.profile.updated" }

// =============================================================================
// Activation Domain Events
// =============================================================================

// WorkflowStepAdvanced is published after a workflow transition has been
// durably persisted.
type WorkflowStepAdvanced struct {
	BaseEvent
	OrganizationID uuid.UUID `json:"organizationId"`
	FromStep       string    `json:"fromStep"`
	ToStep         string    `json:"toStep"`
}

func (e WorkflowStepAdvanced) EventName() string { return "activation.workflow.step_advanced" }

// ActivationCompleted is published when an organization reaches the final
// activation_complete step.
type ActivationCompleted struct {
	BaseEvent
	OrganizationID   uuid.UUID `json:"organizationId"`
	OrganizationName string    `json:"organizationName"`
	ContactEmail     string    `json:"contactEmail"`
	PricingTier      string    `json:"pricingTier"`
	EngagementModel  string    `json:"engagementModel"`
	MembershipStatus string    `json:"membershipStatus"`
}

func (e ActivationCompleted) EventName() string { return "activation.completed" }
