package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// EmailOptions configures SMTP delivery
type EmailOptions struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// Email sends the report as a plain-text mail
type Email struct {
	opts EmailOptions
}

func NewEmail(opts EmailOptions) *Email {
	if opts.Username == "" {
		opts.Username = opts.From
	}
	return &Email{opts: opts}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("slotwatch <%s>", e.opts.From)
	mail.To = e.opts.To
	mail.Subject = e.opts.Subject
	mail.Text = []byte(message)

	addr := fmt.Sprintf("%s:%d", e.opts.Server, e.opts.Port)
	err := mail.Send(addr, smtp.PlainAuth("", e.opts.Username, e.opts.Password, e.opts.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}
