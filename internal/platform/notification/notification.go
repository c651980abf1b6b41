// Package notification renders templated emails and hands them to a sender.
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Attachment is a file carried by a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound email.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// EmailSender delivers a Message.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// Template defines a reusable email.
type Template struct {
	ID      string
	Subject string
	Body    string
}

const (
	TemplateSignupOTP        = "signup-otp"
	TemplateResendOTP        = "resend-otp"
	TemplatePasswordResetOTP = "password-reset-otp"
	TemplatePregnancyReport  = "pregnancy-report"
)

// TemplateEngine manages templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	for _, t := range []Template{
		{
			ID:      TemplateSignupOTP,
			Subject: "Your OTP for Signup",
			Body:    "Your OTP for signup is: {{otp}}",
		},
		{
			ID:      TemplateResendOTP,
			Subject: "Your OTP for Signup",
			Body:    "Your new OTP is: {{otp}}",
		},
		{
			ID:      TemplatePasswordResetOTP,
			Subject: "Your OTP for Password Reset",
			Body:    "Your OTP for Password Reset is: {{otp}}",
		},
		{
			ID:      TemplatePregnancyReport,
			Subject: "High Risk Patient Report",
			Body:    "Please find attached your pregnancy thyroid risk assessment report.",
		},
	} {
		e.RegisterTemplate(t)
	}
	return e
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}
