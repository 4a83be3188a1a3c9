package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"meetups.app/pkg/security"
	"meetups.app/providers"
)

// EmailService composes account emails and dispatches them through the
// background task pool. Delivery failures are retried by the pool, not
// observed by the caller.
type EmailService struct {
	provider providers.EmailProvider
	codec    *security.TokenCodec
	tasks    TaskSubmitterInterface
	baseURL  string
}

// NewEmailService creates a new email service
func NewEmailService(
	provider providers.EmailProvider,
	codec *security.TokenCodec,
	tasks TaskSubmitterInterface,
	baseURL string,
) *EmailService {
	return &EmailService{
		provider: provider,
		codec:    codec,
		tasks:    tasks,
		baseURL:  baseURL,
	}
}

// emailPayload is the wire format of a queued email task
type emailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// verificationMessage builds the HTML body with a signed activation link
func (s *EmailService) verificationMessage(username string) (string, error) {
	token, err := s.codec.Encode(username)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf(
		"<p>Hi %s, this is email address confirmation. "+
			"To continue using the meetup service, follow the link:<br>"+
			"<a href=\"%s/users/activate_user/%s\">%s/users/activate_user/%s</a><br>"+
			"Thanks for using Meetups</p>",
		username, s.baseURL, token, s.baseURL, token,
	)
	return body, nil
}

// SendVerificationEmail queues an address-confirmation email. The message
// carries a signed activation link bound to the username.
func (s *EmailService) SendVerificationEmail(ctx context.Context, email, username string) error {
	log.Printf("[DEBUG] EmailService.SendVerificationEmail called for: %s\n", email)

	body, err := s.verificationMessage(username)
	if err != nil {
		return err
	}

	_, err = s.tasks.Submit(ctx, TaskSendVerificationEmail, emailPayload{
		To:      email,
		Subject: "Registration confirmation",
		Body:    body,
	})
	return err
}

// HandleSendEmail is the pool handler delivering queued emails over SMTP
func (s *EmailService) HandleSendEmail(_ context.Context, payload []byte) (interface{}, error) {
	var p emailPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	if err := s.provider.SendEmail(p.To, p.Subject, p.Body, true); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] Verification email sent to: %s\n", p.To)
	return nil, nil
}
