package service

import (
	"context"
	"fmt"
	"time"

	"bloodlink-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridHost = "https://api.sendgrid.com"

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	host      string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	if fromName == "" {
		fromName = "BloodLink"
	}
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		host:      sendGridHost,
	}
}

func (s *sendGridEmailService) SendAdminDigest(ctx context.Context, to, name, subject, body string) error {
	text := fmt.Sprintf("Hello %s,\n\n%s\n\nThe BloodLink Team", name, body)
	return s.send(ctx, to, name, subject, text)
}

func (s *sendGridEmailService) SendEligibilityReminder(ctx context.Context, to, name string, eligibleSince time.Time) error {
	subject := "You can donate blood again"
	text := fmt.Sprintf("Hello %s,\n\nYour last donation cooldown ended on %s. You are eligible to donate again.\n\nThe BloodLink Team",
		name, eligibleSince.Format("January 2, 2006"))
	return s.send(ctx, to, name, subject, text)
}

func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = subject
	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(toName, to))
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/plain", plainText))

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	return nil
}

type noopEmailService struct{}

// NewNoopEmailService is used when no email provider is configured.
func NewNoopEmailService() EmailService { return noopEmailService{} }

func (noopEmailService) SendAdminDigest(context.Context, string, string, string, string) error {
	return nil
}

func (noopEmailService) SendEligibilityReminder(context.Context, string, string, time.Time) error {
	return nil
}
