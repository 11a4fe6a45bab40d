package email_adapter

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends plain text notification e-mails over SMTP.
type SMTPMailer struct {
	from   string
	dialer dialer
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("SMTP host, port and sender must be configured")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTPMailer{from: cfg.From, dialer: d}, nil
}

var _ port.MailerPort = (*SMTPMailer)(nil)

// Send gives up when ctx ends; the dial itself cannot be interrupted and
// finishes in the background.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient provided for email")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "SMTPMailer", "to": to})
	select {
	case <-ctx.Done():
		logger.Warn("E-mail sending cancelled", port.Fields{"error": ctx.Err().Error()})
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	logger.Debug("E-mail sent", port.Fields{"subject": subject})
	return nil
}

// LogMailer only logs notifications; used when SMTP is not configured.
type LogMailer struct {
	logger port.LoggerPort
}

func NewLogMailer(logger port.LoggerPort) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ port.MailerPort = (*LogMailer)(nil)

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("E-mail delivery disabled, notification logged", port.Fields{
		"component": "LogMailer",
		"to":        to,
		"subject":   subject,
	})
	return nil
}
