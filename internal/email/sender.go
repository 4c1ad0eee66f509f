// Package email sends transactional emails for the activation workflow.
package email

import (
	"context"

	"activation_backend/platform/config"
)

// Sender delivers transactional emails. Delivery failures are reported to
// the caller; whether they are fatal is the caller's decision.
type Sender interface {
	SendActivationConfirmation(ctx context.Context, toEmail, organizationName, pricingTier, engagementModel string) error
	SendWorkflowReviewNeeded(ctx context.Context, toEmail, organizationName string, issues []string) error
}

// NoopSender discards every email. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendActivationConfirmation(ctx context.Context, toEmail, organizationName, pricingTier, engagementModel string) error {
	return nil
}

func (NoopSender) SendWorkflowReviewNeeded(ctx context.Context, toEmail, organizationName string, issues []string) error {
	return nil
}

// NewSender selects a sender implementation from configuration: SMTP when
// email is enabled and a host is configured, otherwise a no-op.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
