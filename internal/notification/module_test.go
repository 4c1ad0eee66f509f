package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	activationrepo "activation_backend/internal/activation/repository"
	activationsvc "activation_backend/internal/activation/service"
	"activation_backend/internal/events"
	"activation_backend/platform/logger"
)

type capturingSender struct {
	confirmations []string
	reviews       []string
	lastIssues    []string
}

func (c *capturingSender) SendActivationConfirmation(_ context.Context, toEmail, _, _, _ string) error {
	c.confirmations = append(c.confirmations, toEmail)
	return nil
}

func (c *capturingSender) SendWorkflowReviewNeeded(_ context.Context, toEmail, _ string, issues []string) error {
	c.reviews = append(c.reviews, toEmail)
	c.lastIssues = issues
	return nil
}

type stubLoader struct {
	out activationsvc.ReconcileOutcome
}

func (s *stubLoader) Load(_ context.Context, _ uuid.UUID) (activationsvc.ReconcileOutcome, error) {
	return s.out, nil
}

func TestActivationCompletedSendsConfirmation(t *testing.T) {
	sender := &capturingSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.Handle(context.Background(), events.ActivationCompleted{
		BaseEvent:        events.NewBaseEvent(),
		OrganizationID:   uuid.New(),
		OrganizationName: "Helping Hands Trust",
		ContactEmail:     "ops@helpinghands.example",
		PricingTier:      "Standard",
		EngagementModel:  "PaaS",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.confirmations) != 1 || sender.confirmations[0] != "ops@helpinghands.example" {
		t.Fatalf("expected one confirmation to the contact email, got %v", sender.confirmations)
	}
}

func TestActivationCompletedWithoutEmailIsSkipped(t *testing.T) {
	sender := &capturingSender{}
	m := NewModule(sender, logger.New("development"))

	err := m.Handle(context.Background(), events.ActivationCompleted{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.confirmations) != 0 {
		t.Fatalf("expected no email, got %v", sender.confirmations)
	}
}

func TestProfileUpdatedEmailsOnDrift(t *testing.T) {
	sender := &capturingSender{}
	m := NewModule(sender, logger.New("development"))
	m.SetWorkflowLoader(&stubLoader{out: activationsvc.ReconcileOutcome{
		SavedSelections: &activationrepo.ActivationRecord{
			OrganizationID:   uuid.New(),
			OrganizationName: "Helping Hands Trust",
			ContactEmail:     "ops@helpinghands.example",
		},
		Validation: activationsvc.ValidationResult{
			IsValid: false,
			Issues:  []string{"country changed from India to Singapore"},
		},
	}})

	err := m.Handle(context.Background(), events.OrganizationProfileUpdated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.reviews) != 1 {
		t.Fatalf("expected one review email, got %v", sender.reviews)
	}
	if len(sender.lastIssues) != 1 {
		t.Fatalf("expected issues forwarded, got %v", sender.lastIssues)
	}
}

func TestProfileUpdatedValidRecordSendsNothing(t *testing.T) {
	sender := &capturingSender{}
	m := NewModule(sender, logger.New("development"))
	m.SetWorkflowLoader(&stubLoader{out: activationsvc.ReconcileOutcome{
		Validation: activationsvc.ValidationResult{IsValid: true},
	}})

	err := m.Handle(context.Background(), events.OrganizationProfileUpdated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.reviews) != 0 {
		t.Fatalf("expected no email, got %v", sender.reviews)
	}
}
