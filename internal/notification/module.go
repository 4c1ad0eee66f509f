// Package notification provides event handlers for sending emails in
// response to domain events. Domain modules publish events and never touch
// email providers or templates directly.
package notification

import (
	"context"
	"fmt"

	activationsvc "activation_backend/internal/activation/service"
	"activation_backend/internal/email"
	"activation_backend/internal/events"
	apphttp "activation_backend/internal/http"
	"activation_backend/platform/logger"

	"github.com/google/uuid"
)

// WorkflowLoader re-runs activation reconciliation for an organization.
type WorkflowLoader interface {
	Load(ctx context.Context, orgID uuid.UUID) (activationsvc.ReconcileOutcome, error)
}

// Module subscribes to domain events and sends the corresponding emails.
// Delivery failures are returned to the bus, which logs them; they never
// roll back the workflow state that triggered them.
type Module struct {
	sender   email.Sender
	workflow WorkflowLoader
	log      *logger.Logger
}

// NewModule creates a new notification module.
func NewModule(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// Name returns the module name for logging
func (m *Module) Name() string { return "notification" }

// RegisterRoutes is a no-op; this module only consumes events.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {}

// SetWorkflowLoader wires the activation service used to re-run
// reconciliation when a profile changes.
func (m *Module) SetWorkflowLoader(loader WorkflowLoader) {
	m.workflow = loader
}

// RegisterHandlers subscribes this module to the events it handles.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ActivationCompleted{}.EventName(), m)
	bus.Subscribe(events.OrganizationProfileUpdated{}.EventName(), m)
}

// Handle dispatches an event to its handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ActivationCompleted:
		return m.handleActivationCompleted(ctx, e)
	case events.OrganizationProfileUpdated:
		return m.handleProfileUpdated(ctx, e)
	}
	return nil
}

func (m *Module) handleActivationCompleted(ctx context.Context, e events.ActivationCompleted) error {
	if e.ContactEmail == "" {
		return nil
	}
	if err := m.sender.SendActivationConfirmation(ctx, e.ContactEmail, e.OrganizationName, e.PricingTier, e.EngagementModel); err != nil {
		return fmt.Errorf("activation confirmation email: %w", err)
	}
	return nil
}

// handleProfileUpdated re-runs reconciliation for the changed organization
// and, when the saved selections no longer hold, emails the contact so the
// drift is reviewed instead of discovered at the next sign-in.
func (m *Module) handleProfileUpdated(ctx context.Context, e events.OrganizationProfileUpdated) error {
	if m.workflow == nil {
		return nil
	}

	out, err := m.workflow.Load(ctx, e.OrganizationID)
	if err != nil {
		return fmt.Errorf("reconcile after profile update: %w", err)
	}
	if out.Validation.IsValid || out.SavedSelections == nil {
		return nil
	}
	if out.SavedSelections.ContactEmail == "" {
		return nil
	}

	err = m.sender.SendWorkflowReviewNeeded(ctx, out.SavedSelections.ContactEmail,
		out.SavedSelections.OrganizationName, out.Validation.Issues)
	if err != nil {
		return fmt.Errorf("workflow review email: %w", err)
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
