package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client     *resend.Client
	fromEmail  string
	audienceID string
	isDev      bool
	appURL     string
	appName    string
	adminEmail string
}

func NewEmailService(apiKey, fromEmail, audienceID, appURL, appName, adminEmail string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		audienceID: audienceID,
		isDev:      isDev,
		appURL:     appURL,
		appName:    appName,
		adminEmail: adminEmail,
	}
}

// SendLoginCode emails a single-use admin sign-in code.
func (s *EmailService) SendLoginCode(email, code string) error {
	subject, body := loginCodeEmailTemplate(code, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "login_code", "to", email, "code", code)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "login_code", "to", email)
	}
	return err
}

// NotifyNewMessage alerts the site admin that a submission arrived. High-risk
// submissions get an urgent subject line. The message body is never included.
func (s *EmailService) NotifyNewMessage(messageID, category, riskLevel string) error {
	reviewURL := fmt.Sprintf("%s/admin/messages/%s", s.appURL, messageID)
	subject, body := newMessageEmailTemplate(reviewURL, category, riskLevel, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "new_message", "to", s.adminEmail, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.adminEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "new_message", "to", s.adminEmail)
	}
	return err
}

// SendDailyVerse mails the verse of the day to one subscriber.
func (s *EmailService) SendDailyVerse(email, reference, text string) error {
	unsubscribeURL := fmt.Sprintf("%s/api/verse/unsubscribe?email=%s", s.appURL, email)
	subject, body := dailyVerseEmailTemplate(reference, text, unsubscribeURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "daily_verse", "to", email, "reference", reference)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "daily_verse", "to", email)
	}
	return err
}

// SubscribeAudience mirrors a verse subscriber into the Resend audience when
// one is configured. Failures are logged and swallowed to prevent email
// enumeration.
func (s *EmailService) SubscribeAudience(email string) error {
	if s.isDev {
		slog.Info("audience subscription (dev mode)", "email", email)
		return nil
	}

	if s.client == nil || s.audienceID == "" {
		return nil
	}

	params := &resend.CreateContactRequest{
		Email:      email,
		AudienceId: s.audienceID,
	}

	_, err := s.client.Contacts.Create(params)
	if err != nil {
		slog.Warn("audience subscription failed", "error", err, "email", email)
		return nil
	}

	slog.Info("audience subscription successful", "email", email)
	return nil
}
