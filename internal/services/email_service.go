package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"carnet/internal/mail"
	"carnet/internal/models"
)

const (
	verificationSubject = "Welcome Onboard the Carnet Train!"
	resetSubject        = "Password Reset"
)

var (
	verificationTmpl = template.Must(template.New("verify").Parse(`
		<h2>Welcome to Carnet, {{.Username}}!</h2>
		<p>Thanks for signing up. Please confirm your email address to finish setting up your account.</p>
		<p><a href="{{.URL}}">Verify my email</a></p>
		<p>If the button does not work, paste this link into your browser:<br>{{.URL}}</p>
	`))
	resetTmpl = template.Must(template.New("reset").Parse(`
		<h3>Password reset requested</h3>
		<p>Hi {{.Username}}, we received a request to reset the password for your account.</p>
		<p><a href="{{.URL}}">Choose a new password</a></p>
		<p>The link expires in {{.ExpiresIn}}. If you did not request this change, you can ignore this email.</p>
	`))
)

// EmailService composes account emails and hands them to the mail queue.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, user *models.User, token string) error
	SendPasswordResetEmail(ctx context.Context, user *models.User, token string, expiresIn string) error
}

type emailService struct {
	queue       mail.Queue
	frontendURL string
}

func NewEmailService(queue mail.Queue, frontendURL string) EmailService {
	return &emailService{
		queue:       queue,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (s *emailService) SendVerificationEmail(ctx context.Context, user *models.User, token string) error {
	body, err := render(verificationTmpl, map[string]string{
		"Username": user.Username,
		"URL":      s.frontendURL + "/verify/" + token,
	})
	if err != nil {
		return err
	}
	return s.enqueue(ctx, user.Email, verificationSubject, body)
}

func (s *emailService) SendPasswordResetEmail(ctx context.Context, user *models.User, token string, expiresIn string) error {
	body, err := render(resetTmpl, map[string]string{
		"Username":  user.Username,
		"URL":       s.frontendURL + "/reset-password/" + token,
		"ExpiresIn": expiresIn,
	})
	if err != nil {
		return err
	}
	return s.enqueue(ctx, user.Email, resetSubject, body)
}

func (s *emailService) enqueue(ctx context.Context, to, subject, body string) error {
	if err := s.queue.Enqueue(ctx, mail.Message{To: to, Subject: subject, HTMLBody: body}); err != nil {
		return fmt.Errorf("enqueue %q: %w", subject, err)
	}
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
