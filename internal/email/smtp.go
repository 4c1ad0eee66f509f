package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendActivationConfirmation(ctx context.Context, toEmail, organizationName, pricingTier, engagementModel string) error {
	content, err := renderEmailTemplate("activation_confirmation.html", activationConfirmationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Activation complete",
			Heading: fmt.Sprintf("Welcome aboard, %s", organizationName),
		},
		OrganizationName: organizationName,
		PricingTier:      pricingTier,
		EngagementModel:  engagementModel,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectActivationConfirmation, content)
}

func (s *SMTPSender) SendWorkflowReviewNeeded(ctx context.Context, toEmail, organizationName string, issues []string) error {
	content, err := renderEmailTemplate("workflow_review.html", workflowReviewEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your activation needs review",
			Heading: "Your saved selections need review",
		},
		OrganizationName: organizationName,
		Issues:           issues,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWorkflowReviewNeeded, content)
}

var _ Sender = (*SMTPSender)(nil)
