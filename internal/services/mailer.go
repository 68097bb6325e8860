package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/calebmartin/inkwell/internal/config"
	"github.com/calebmartin/inkwell/internal/models"
	"github.com/calebmartin/inkwell/pkg/logger"
)

// Mailer delivers a single plain-text message. Implementations relay via
// SMTP or AWS SES depending on configuration.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer relays mail through an SMTP submission endpoint, upgrading
// the connection with STARTTLS. Port 465 gets implicit TLS instead.
type SMTPMailer struct {
	cfg    config.MailConfig
	auth   smtp.Auth
	logger *slog.Logger
}

func NewSMTPMailer(cfg config.MailConfig, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.SMTPHost),
		logger: log,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	address := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := m.buildMessage(to, subject, body)

	var err error
	if m.cfg.SMTPPort == 465 {
		err = m.sendImplicitTLS(ctx, address, to, msg)
	} else {
		err = m.sendSTARTTLS(ctx, address, to, msg)
	}

	if err != nil {
		m.logger.Error("mail delivery failed",
			slog.String("to", logger.SanitizedEmail(to)),
			slog.Any("error", err))
		return fmt.Errorf("%w: %v", models.ErrDeliveryFailure, err)
	}

	m.logger.Info("mail delivered",
		slog.String("to", logger.SanitizedEmail(to)),
		slog.String("subject", subject))
	return nil
}

func (m *SMTPMailer) timeout(ctx context.Context) time.Duration {
	timeout := m.cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// sendSTARTTLS upgrades a plain connection to TLS (port 587).
func (m *SMTPMailer) sendSTARTTLS(ctx context.Context, address, to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, m.timeout(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.cfg.SMTPHost}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return m.sendViaClient(client, to, msg)
}

// sendImplicitTLS connects over TLS from the start (port 465).
func (m *SMTPMailer) sendImplicitTLS(ctx context.Context, address, to string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.SMTPHost}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: m.timeout(ctx)}, "tcp", address, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return m.sendViaClient(client, to, msg)
}

func (m *SMTPMailer) sendViaClient(client *smtp.Client, to string, msg []byte) error {
	if err := client.Auth(m.auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(m.cfg.FromAddress); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (m *SMTPMailer) buildMessage(to, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		date, to, m.cfg.FromAddress, encodedSubject, body,
	)
}
